package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/duccv/service-kit/internal/constant"
	"github.com/duccv/service-kit/internal/model"
	"github.com/duccv/service-kit/internal/model/response"
	"github.com/duccv/service-kit/internal/registry"
	"github.com/duccv/service-kit/internal/validation"
	"github.com/duccv/service-kit/pkg/logger"
)

type ServiceHandler struct {
	registry *registry.Registry
}

func NewServiceHandler(reg *registry.Registry) *ServiceHandler {
	return &ServiceHandler{registry: reg}
}

// Invoke godoc
//
//	@Summary		Invoke a service operation
//	@Description	Runs one registered operation with JSON encoded arguments
//	@Tags			Services
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			service		path		string					true	"Service name"
//	@Param			operation	path		string					true	"Operation name"
//	@Param			request		body		model.InvocationRequest	true	"Arguments"
//	@Success		200			{object}	response.ResponseData
//	@Failure		400			{object}	response.ResponseData
//	@Failure		401			{object}	response.ResponseData
//	@Failure		404			{object}	response.ResponseData
//	@Failure		500			{object}	response.ResponseData
//	@Router			/v1/services/{service}/{operation} [post]
func (h *ServiceHandler) Invoke(c *gin.Context) {
	params := c.MustGet(validation.ParamsKey).(model.OperationParams)
	body := c.MustGet(validation.BodyKey).(model.InvocationPayload)

	ctx := c.Request.Context()
	result, err := h.registry.Invoke(ctx, params.Service, params.Operation, body.Args)
	if err != nil {
		status, resData := errorResponse(err)
		logger.WithInvocation(logger.FromContext(ctx), params.Service, params.Operation).
			Warn("Operation failed", zap.Int("status", status), zap.Error(err))
		c.AbortWithStatusJSON(status, resData)
		return
	}

	resData := constant.OK
	resData.Data = result
	c.JSON(http.StatusOK, resData)
}

// Operations godoc
//
//	@Summary	List registered operations
//	@Tags		Services
//	@Produce	json
//	@Success	200	{object}	response.ResponseData
//	@Router		/v1/services [get]
func (h *ServiceHandler) Operations(c *gin.Context) {
	resData := constant.OK
	resData.Data = h.registry.Operations()
	c.JSON(http.StatusOK, resData)
}

func errorResponse(err error) (int, response.ResponseData) {
	var resData response.ResponseData
	switch {
	case errors.Is(err, registry.ErrUnknownOperation):
		resData = constant.NOT_FOUND
	case errors.Is(err, registry.ErrBadArguments):
		resData = constant.BAD_REQUEST
	default:
		resData = constant.INTERNAL_SERVER_ERROR
	}
	resData.Error = err.Error()
	return resData.Ec, resData
}
