package plan_allocation

import (
	"errors"
	"fmt"
)

// FailCode стабильный машиночитаемый код отказа планирования
type FailCode string

const (
	CodeNotFound         FailCode = "NOT_FOUND"
	CodeClinicBlocked    FailCode = "CLINIC_BLOCKED"
	CodeOutOfSchedule    FailCode = "OUT_OF_SCHEDULE"
	CodeProfessionalBusy FailCode = "PROFESSIONAL_BUSY"
	CodeResourceBusy     FailCode = "RESOURCE_BUSY"
)

// Fail доменный отказ планирования: код таксономии + человекочитаемое сообщение
// Передается вызывающему без изменений; вызывающий сам решает, как его показать
// (жесткая ошибка для бронирования, мягкий available:false для check-запросов)
type Fail struct {
	Code    FailCode
	Message string
}

// Error реализует error
func (f *Fail) Error() string {
	return fmt.Sprintf("plan_allocation: %s - %s", f.Code, f.Message)
}

// AsFail извлекает доменный отказ из цепочки ошибок
func AsFail(err error) (*Fail, bool) {
	var fail *Fail
	if errors.As(err, &fail) {
		return fail, true
	}
	return nil, false
}

func newFail(code FailCode, message string) *Fail {
	return &Fail{Code: code, Message: message}
}

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("plan_allocation: invalid input data")

	// ErrInternal возвращается при ошибках хранилищ
	// Никогда не интерпретируется как отказ по занятости или расписанию
	ErrInternal = errors.New("plan_allocation: internal error")
)

// Человекочитаемые сообщения отказов
const (
	msgServiceNotFound  = "Service not found"
	msgClinicBlocked    = "Clinic is blocked at this specific time frame"
	msgOutOfSchedule    = "No professional on duty at this specific time frame"
	msgProfessionalBusy = "No professional has available capacity"
	msgResourceBusyFmt  = "No %s available at this specific time frame"
)
