package search_slots

import "time"

// Request модель запроса на поиск доступных слотов
type Request struct {
	// ServiceID ID услуги
	ServiceID int64
	// Date дата поиска (без времени)
	Date time.Time
	// Smart при пустом результате сдвигать поиск вперед по дням
	// до первого дня с доступными слотами (в пределах горизонта)
	Smart bool
}

// Response модель ответа со списком доступных слотов
type Response struct {
	ServiceID int64
	// Date дата, на которую найдены слоты (при умном поиске может
	// отличаться от запрошенной)
	Date time.Time
	// Slots времена начала, для которых планирование заведомо успешно
	Slots []time.Time
	// Hint подсказка для пользователя при сдвиге даты (только умный поиск)
	Hint *string
	// Blocks слоты, сгруппированные в максимальные непрерывные серии
	// (только умный поиск, для презентации)
	Blocks []Block
}

// Block максимальная серия подряд идущих доступных слотов
type Block struct {
	StartsAt time.Time
	EndsAt   time.Time
	Slots    []time.Time
}
