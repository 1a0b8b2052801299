package ledger

import (
	"github.com/m04kA/SMC-AllocationService/pkg/dbmetrics"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor

// Filter фильтры выборки записей занятости
// Все поля опциональны и комбинируются через AND
type Filter struct {
	// ProfessionalID только записи указанного специалиста
	ProfessionalID *int64
	// PhysicalResourceID только записи указанного ресурса
	PhysicalResourceID *int64
	// ExcludeAppointmentID исключить записи указанной брони
	// (используется при переносе, чтобы бронь могла двигаться внутри собственного окна)
	ExcludeAppointmentID *int64
}
