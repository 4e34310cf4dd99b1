package uliza

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/savannahworks/uliza/internal/engine"
)

// Dialer drives a dialog loop against an Engine using provided IO,
// emulating the handset side of the gateway protocol: every keypress
// resends the full accumulated input string. This allows for easy
// testing and local menu walks without a telco gateway.
type Dialer struct {
	Input       io.Reader
	Output      io.Writer
	CallerID    string
	ServiceCode string

	// SessionID is generated per Run when empty, like a gateway does.
	SessionID string
}

// NewDialer creates a Dialer for the given service code with a sample
// caller id. Set Input/Output before Run.
func NewDialer(serviceCode string) *Dialer {
	return &Dialer{
		CallerID:    "+254700000000",
		ServiceCode: serviceCode,
	}
}

// Run walks one complete dialog: render, prompt, resend accumulated
// input, until a terminal screen or input runs out.
func (d *Dialer) Run(ctx context.Context, eng *Engine) error {
	if d.Input == nil || d.Output == nil {
		return fmt.Errorf("dialer requires Input and Output")
	}
	sessionID := d.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	scanner := bufio.NewScanner(d.Input)
	var tokens []string
	for {
		resp := eng.Handle(ctx, Request{
			SessionID:   sessionID,
			CallerID:    d.CallerID,
			ServiceCode: d.ServiceCode,
			Text:        strings.Join(tokens, engine.Delimiter),
		})

		fmt.Fprintln(d.Output, resp.Text)
		if resp.EndSession {
			return nil
		}

		fmt.Fprint(d.Output, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		tokens = append(tokens, strings.TrimSpace(scanner.Text()))
	}
}
