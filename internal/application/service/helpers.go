package service

import (
	"github.com/sangkips/daybook-api/internal/application/pipeline"
	"github.com/sangkips/daybook-api/internal/config"
	"github.com/sangkips/daybook-api/pkg/apperror"
	"github.com/sangkips/daybook-api/pkg/pagination"
	"github.com/sirupsen/logrus"
)

// logStorageFailure records the cause of a storage error. Other errors are the
// caller's fault and are not logged here.
func logStorageFailure(logger logrus.FieldLogger, module, funcName string, data any, err error) {
	if err == nil || logger == nil || !apperror.IsStorage(err) {
		return
	}
	config.LogError(logger, module, funcName, apperror.GetAppError(err).Message, data, err)
}

// stateLogger traces each pipeline state of op at debug level.
func stateLogger(logger logrus.FieldLogger, op string) func(pipeline.State) {
	if logger == nil {
		return nil
	}
	return func(state pipeline.State) {
		logger.WithFields(logrus.Fields{"op": op, "state": state.String()}).Debug("mutation state")
	}
}

func paginate[T any](items []T, total int64, params *pagination.PaginationParams) *pagination.PaginatedResult[T] {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()
	return pagination.NewPaginatedResult(items, pagination.NewPagination(params.Page, params.PerPage, total))
}

func requireText(errs *apperror.FieldErrors, field, value string) {
	if value == "" {
		errs.Add(field, "is required")
	}
}
