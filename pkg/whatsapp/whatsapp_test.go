package whatsapp

import (
	"context"
	"net/url"
	"testing"

	"github.com/Tejayenduri9/biryani-boys-backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkEncodesMessage(t *testing.T) {
	link, err := Link("15551234567", "Order Summary:\nChicken Biryani x2")
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", u.Host)
	assert.Equal(t, "/15551234567", u.Path)
	assert.Equal(t, "Order Summary:\nChicken Biryani x2", u.Query().Get("text"))
}

func TestLinkStripsLeadingPlus(t *testing.T) {
	link, err := Link("+15551234567", "hello")
	require.NoError(t, err)
	assert.Contains(t, link, "wa.me/15551234567")
}

func TestLinkRejectsBadInput(t *testing.T) {
	_, err := Link("", "hello")
	assert.Error(t, err)

	_, err = Link("not-a-number", "hello")
	assert.Error(t, err)

	_, err = Link("15551234567", "  ")
	assert.Error(t, err)
}

func TestDispatcherBuildsLink(t *testing.T) {
	d := NewDispatcher(config.WhatsAppConfig{Phone: "15551234567"}, nil)
	link, err := d.Dispatch(context.Background(), "order text")
	require.NoError(t, err)
	assert.Contains(t, link, "wa.me/15551234567")
}
