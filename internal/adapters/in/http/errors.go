package http

import (
	"errors"
	"net/http"

	"storymap/internal/core/domain/model/geo"
	"storymap/internal/core/domain/model/mapdata"
	"storymap/internal/core/domain/model/order"
	"storymap/internal/core/ports"
	"storymap/internal/generated/servers"
	"storymap/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

var featureSourceStatus = map[geo.UnavailableReason]int{
	geo.ReasonMissingCredential: http.StatusServiceUnavailable,
	geo.ReasonNoFeatures:        http.StatusUnprocessableEntity,
	geo.ReasonNetwork:           http.StatusBadGateway,
}

// writeError maps use case errors to responses. Messages of unexpected errors
// are not exposed.
func writeError(ctx echo.Context, err error) error {
	body := toError(err)
	if body.Code >= http.StatusInternalServerError {
		ctx.Logger().Error(err)
	}
	return ctx.JSON(body.Code, body)
}

func toError(err error) servers.Error {
	var fsErr *geo.FeatureSourceError
	if errors.As(err, &fsErr) {
		code, ok := featureSourceStatus[fsErr.Reason]
		if !ok {
			code = http.StatusBadGateway
		}
		reason := string(fsErr.Reason)
		return servers.Error{Code: code, Message: fsErr.UserMessage(), Reason: &reason}
	}

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return servers.Error{Code: http.StatusNotFound, Message: err.Error()}

	case errors.Is(err, order.ErrStatusConflict),
		errors.Is(err, ports.ErrConcurrentUpdate),
		errors.Is(err, order.ErrNotExportable),
		errors.Is(err, order.ErrTransitionNotAllowed):
		return servers.Error{Code: http.StatusConflict, Message: err.Error()}

	case errors.Is(err, geo.ErrInsufficientGeographicData):
		return servers.Error{Code: http.StatusUnprocessableEntity, Message: err.Error()}

	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, mapdata.ErrChapterWithoutLocation),
		errors.Is(err, mapdata.ErrDuplicateChapter),
		errors.Is(err, mapdata.ErrDuplicateLocationID):
		return servers.Error{Code: http.StatusBadRequest, Message: err.Error()}
	}

	return servers.Error{Code: http.StatusInternalServerError, Message: "Internal server error"}
}
