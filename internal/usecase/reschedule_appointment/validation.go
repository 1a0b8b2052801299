package reschedule_appointment

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	if req.NewServiceID == nil && req.NewStartsAt == nil {
		return fmt.Errorf("%w: nothing to reschedule", ErrInvalidInput)
	}

	if req.NewServiceID != nil && *req.NewServiceID <= 0 {
		return fmt.Errorf("%w: newServiceID must be positive", ErrInvalidInput)
	}

	if req.NewStartsAt != nil {
		if req.NewStartsAt.IsZero() {
			return fmt.Errorf("%w: newStartsAt must not be zero", ErrInvalidInput)
		}
		if req.NewStartsAt.Second() != 0 || req.NewStartsAt.Nanosecond() != 0 {
			return fmt.Errorf("%w: newStartsAt must have minute precision", ErrInvalidInput)
		}
	}

	return nil
}
