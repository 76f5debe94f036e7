package whatsapp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffsync/attendance-backend-go/internal/config"
)

func TestSend_NotConfigured(t *testing.T) {
	client := NewClient(config.TwilioConfig{})

	err := client.Send(context.Background(), "+15551234567", "hello")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSend_CanceledContext(t *testing.T) {
	client := NewClient(config.TwilioConfig{
		AccountSID:     "AC00000000000000000000000000000000",
		AuthToken:      "token",
		WhatsAppNumber: "+15550000000",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.Send(ctx, "+15551234567", "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWhatsappAddress(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{"plain number gets prefix", "+628123456789", "whatsapp:+628123456789"},
		{"already prefixed", "whatsapp:+628123456789", "whatsapp:+628123456789"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, whatsappAddress(tt.phone))
		})
	}
}
