package worker

// alerta_worker.go
// Processes low-stock alerts from QueueAlertasStock and mails them to the
// configured recipient.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// AlertaStockPayload is the job sent to QueueAlertasStock after a sale leaves
// an item below the threshold.
type AlertaStockPayload struct {
	ItemID string `json:"item_id"`
	Nombre string `json:"nombre"`
	SKU    string `json:"sku"`
	Stock  int    `json:"stock"`
	Umbral int    `json:"umbral"`
}

// Notificador sends the alert out. infra.Mailer implements it.
type Notificador interface {
	Habilitado() bool
	SendAlertaStock(nombre, sku string, stock, umbral int) error
}

type AlertaStockWorker struct {
	notificador Notificador
}

func NewAlertaStockWorker(n Notificador) *AlertaStockWorker {
	return &AlertaStockWorker{notificador: n}
}

func (w *AlertaStockWorker) Process(_ context.Context, raw json.RawMessage) error {
	var p AlertaStockPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("alerta_worker: invalid payload: %w", err)
	}
	if w.notificador == nil || !w.notificador.Habilitado() {
		log.Info().Str("item_id", p.ItemID).Int("stock", p.Stock).Msg("alerta_worker: mail disabled, alert only logged")
		return nil
	}
	if err := w.notificador.SendAlertaStock(p.Nombre, p.SKU, p.Stock, p.Umbral); err != nil {
		return fmt.Errorf("alerta_worker: send: %w", err)
	}
	log.Info().Str("item_id", p.ItemID).Str("sku", p.SKU).Msg("alerta_worker: low-stock alert sent")
	return nil
}
