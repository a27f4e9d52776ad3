package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Ports)
		wantErr error
	}{
		{name: "all set", modify: func(*Ports) {}},
		{name: "settings optional", modify: func(p *Ports) { p.Settings = nil }},
		{name: "missing auth", modify: func(p *Ports) { p.Auth = nil }, wantErr: ErrMissingAuthService},
		{name: "missing chat", modify: func(p *Ports) { p.Chat = nil }, wantErr: ErrMissingChatService},
		{name: "missing document", modify: func(p *Ports) { p.Document = nil }, wantErr: ErrMissingDocumentService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ports := testPorts()
			tt.modify(ports)

			err := ports.Validate()

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPorts_ErrorsNameTheService(t *testing.T) {
	assert.Contains(t, ErrMissingAuthService.Error(), "auth service")
	assert.Contains(t, ErrMissingChatService.Error(), "chat service")
	assert.Contains(t, ErrMissingDocumentService.Error(), "document service")
}
