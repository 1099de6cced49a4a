package transport

import (
	"time"

	"github.com/cectools/cecomply/internal/cec"
	"github.com/cectools/cecomply/internal/logging"
)

// Trace wraps a Transport and logs every frame crossing it. Receive
// timeouts are not logged; they are the normal idle state of the bus.
type Trace struct {
	Bus Transport
	Log *logging.Logger
}

func NewTrace(bus Transport, log *logging.Logger) *Trace {
	return &Trace{Bus: bus, Log: log}
}

func (t *Trace) Transmit(msg cec.Message) (bool, error) {
	acked, err := t.Bus.Transmit(msg)
	t.Log.LogFrame("tx", msg.String(), msg.Operands, acked, err)
	return acked, err
}

func (t *Trace) Receive(timeout time.Duration) (cec.Message, error) {
	msg, err := t.Bus.Receive(timeout)
	if err == nil {
		t.Log.LogFrame("rx", msg.String(), msg.Operands, false, nil)
	} else if err != ErrTimeout {
		t.Log.LogFrame("rx", "receive", nil, false, err)
	}
	return msg, err
}

func (t *Trace) SetMode(mode Mode) error {
	return t.Bus.SetMode(mode)
}
