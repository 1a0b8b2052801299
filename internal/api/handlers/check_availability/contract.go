package check_availability

import (
	"context"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	planAllocation "github.com/m04kA/SMC-AllocationService/internal/usecase/plan_allocation"
)

type PlanAllocationUseCase interface {
	Execute(ctx context.Context, req *planAllocation.Request) (*domain.AllocationPlan, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
