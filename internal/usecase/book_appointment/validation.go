package book_appointment

import (
	"fmt"
	"time"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, now time.Time) error {
	if req.PatientID <= 0 {
		return fmt.Errorf("%w: patientID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.StartsAt.IsZero() {
		return fmt.Errorf("%w: startsAt is required", ErrInvalidInput)
	}

	if req.StartsAt.Second() != 0 || req.StartsAt.Nanosecond() != 0 {
		return fmt.Errorf("%w: startsAt must have minute precision", ErrInvalidInput)
	}

	if req.StartsAt.Before(now) {
		return ErrInvalidDate
	}

	return nil
}
