package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	searchSlots "github.com/m04kA/SMC-AllocationService/internal/usecase/search_slots"
)

// SlotsResponse HTTP response model
type SlotsResponse struct {
	ServiceID int64    `json:"serviceId"`
	Date      string   `json:"date"`
	Slots     []string `json:"slots"`
	Hint      *string  `json:"hint,omitempty"`
	Blocks    []Block  `json:"blocks,omitempty"`
}

// Block серия подряд идущих доступных слотов
type Block struct {
	StartsAt string   `json:"startsAt"`
	EndsAt   string   `json:"endsAt"`
	Slots    []string `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *searchSlots.Response) *SlotsResponse {
	out := &SlotsResponse{
		ServiceID: resp.ServiceID,
		Date:      resp.Date.Format(domain.DateFormat),
		Slots:     formatSlots(resp.Slots),
		Hint:      resp.Hint,
	}

	for _, b := range resp.Blocks {
		out.Blocks = append(out.Blocks, Block{
			StartsAt: b.StartsAt.Format(time.RFC3339),
			EndsAt:   b.EndsAt.Format(time.RFC3339),
			Slots:    formatSlots(b.Slots),
		})
	}

	return out
}

func formatSlots(slots []time.Time) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Format(time.RFC3339))
	}
	return out
}
