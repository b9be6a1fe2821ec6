package utils

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	sharedQuery "github.com/davicafu/wishlab/shared/platform/query"
)

// Estados del sobre JSEND.
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// Response es el sobre JSEND de todas las respuestas HTTP.
type Response struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
	Code    int         `json:"code,omitempty"`
}

// SendSuccess envía una respuesta exitosa con un payload de datos.
func SendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{Status: StatusSuccess, Data: data})
}

// SendFail indica un error del cliente (4xx).
func SendFail(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{Status: StatusFail, Data: data, Message: message, Code: statusCode})
}

// SendError indica un fallo del servidor (5xx).
func SendError(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{Status: StatusError, Data: data, Message: message, Code: statusCode})
}

// --- Helpers específicos para errores comunes ---

func SendBadRequest(c *gin.Context, message string) {
	SendFail(c, http.StatusBadRequest, message, nil)
}

func SendNotFound(c *gin.Context, message string) {
	SendFail(c, http.StatusNotFound, message, nil)
}

func SendConflict(c *gin.Context, message string) {
	SendFail(c, http.StatusConflict, message, nil)
}

// SendInternalServerError oculta el detalle salvo en modo debug.
func SendInternalServerError(c *gin.Context, err error, debug bool, log *zap.Logger) {
	log.Error("Error interno", zap.String("path", c.FullPath()), zap.Error(err))

	var data interface{}
	if debug && err != nil {
		data = gin.H{"error": err.Error()}
	}
	SendError(c, http.StatusInternalServerError, "Internal server error", data)
}

// SendQueryError traduce el error de un listado: validación → 400, el resto → 500.
// Los datos de depuración de la validación solo se exponen en modo debug.
func SendQueryError(c *gin.Context, err error, debug bool, log *zap.Logger) {
	var ve *sharedQuery.ValidationError
	if errors.As(err, &ve) {
		var data interface{}
		if debug {
			data = gin.H{"field": ve.Field, "value": ve.Data}
		}
		SendFail(c, http.StatusBadRequest, ve.Message, data)
		return
	}
	SendInternalServerError(c, err, debug, log)
}

// SendPage envía una página de un listado.
func SendPage(c *gin.Context, page sharedQuery.Page) {
	SendSuccess(c, http.StatusOK, page)
}

// BindListRequest decodifica el cuerpo de un listado; un cuerpo vacío es una petición sin opciones.
func BindListRequest(c *gin.Context) (sharedQuery.ListRequest, error) {
	var req sharedQuery.ListRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		return sharedQuery.ListRequest{}, err
	}
	return req, nil
}
