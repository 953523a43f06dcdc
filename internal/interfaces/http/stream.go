package http

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/docvault-api/internal/application/dto"
	"github.com/jhoicas/docvault-api/internal/application/usecase"
)

var _ usecase.FrameSink = (*ndjsonSink)(nil)

// ndjsonSink entrega los frames del motor de consultas como NDJSON: un
// objeto JSON por línea, con flush tras cada frame para que el cliente los
// reciba a medida que se producen.
type ndjsonSink struct {
	w   *bufio.Writer
	enc *json.Encoder
}

func newNDJSONSink(w *bufio.Writer) *ndjsonSink {
	return &ndjsonSink{w: w, enc: json.NewEncoder(w)}
}

// Send serializa el frame y lo vacía al cliente. Encode ya añade el salto de
// línea que separa los frames.
func (s *ndjsonSink) Send(_ context.Context, frame dto.StreamFrame) error {
	if err := s.enc.Encode(frame); err != nil {
		return fmt.Errorf("codificar frame: %w", err)
	}
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("enviar frame: %w", err)
	}
	return nil
}
