package utils

import (
	"encoding/json"

	"go.uber.org/zap"
)

// UnmarshalAndHandle decodifica el Data de un evento de integración y se lo pasa al handler.
// Un payload que no encaja con T se registra y se descarta.
func UnmarshalAndHandle[T any](log *zap.Logger, eventType string, data json.RawMessage, handler func(T)) {
	var evt T
	if err := json.Unmarshal(data, &evt); err != nil {
		log.Warn("⚠️ Payload de evento inválido", zap.String("type", eventType), zap.Error(err))
		return
	}
	handler(evt)
}
