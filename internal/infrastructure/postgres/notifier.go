package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/docvault-api/internal/application/events"
)

var _ events.Notifier = (*Notifier)(nil)

// Notifier publica los eventos de cambio por pg_notify. Los suscriptores
// (LISTEN sobre el mismo canal) filtran por la clave de partición del
// payload; la publicación no espera acuse.
type Notifier struct {
	q       Querier
	channel string
}

// NewNotifier construye el notificador sobre el canal configurado.
func NewNotifier(q Querier, channel string) *Notifier {
	return &Notifier{q: q, channel: channel}
}

// Publish serializa el evento y lo emite. NOTIFY dentro de una transacción
// solo se entrega en el commit, lo que mantiene a los suscriptores detrás del
// estado comprometido.
func (n *Notifier) Publish(ctx context.Context, ev events.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("serializar evento %s: %w", ev.Name, err)
	}
	if _, err := n.q.Exec(ctx, `SELECT pg_notify($1, $2)`, n.channel, string(payload)); err != nil {
		return fmt.Errorf("pg_notify %s: %w", ev.Name, err)
	}
	return nil
}
