package publish

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AtlasScout/AtlasScout/agent/go-service/config"
	"github.com/AtlasScout/AtlasScout/agent/go-service/scanner"
)

type mockToken struct {
	err error
}

func (t *mockToken) Wait() bool { return true }
func (t *mockToken) WaitTimeout(time.Duration) bool { return true }
func (t *mockToken) Error() error { return t.err }
func (t *mockToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type mockClient struct {
	mock.Mock
}

func (m *mockClient) IsConnected() bool { return m.Called().Bool(0) }
func (m *mockClient) IsConnectionOpen() bool { return m.IsConnected() }
func (m *mockClient) Connect() mqtt.Token { return &mockToken{} }
func (m *mockClient) Disconnect(quiesce uint) {
	m.Called(quiesce)
}

func (m *mockClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	args := m.Called(topic, qos, retained, payload)
	return &mockToken{err: args.Error(0)}
}

func (m *mockClient) Subscribe(string, byte, mqtt.MessageHandler) mqtt.Token {
	return &mockToken{}
}

func (m *mockClient) SubscribeMultiple(map[string]byte, mqtt.MessageHandler) mqtt.Token {
	return &mockToken{}
}

func (m *mockClient) Unsubscribe(...string) mqtt.Token { return &mockToken{} }
func (m *mockClient) AddRoute(string, mqtt.MessageHandler) {}
func (m *mockClient) OptionsReader() mqtt.ClientOptionsReader { return mqtt.ClientOptionsReader{} }

func observations() []scanner.Observation {
	return []scanner.Observation{{
		Rect:    image.Rect(1, 2, 11, 12),
		MapName: "Savannah",
		Layout:  "Open",
		Color:   "#ffffff",
	}}
}

func TestPublish(t *testing.T) {
	client := &mockClient{}
	client.On("IsConnected").Return(true)
	client.On("Publish", "atlas/screen", byte(1), true, mock.Anything).Return(nil).Once()
	client.On("Publish", "atlas/latest", byte(1), true, mock.Anything).Return(nil).Once()

	p := NewPublisher(client, "atlas", 1, true)
	p.now = func() time.Time { return time.Unix(1700000000, 0) }
	require.NoError(t, p.Publish(scanner.ModeScreen, observations()))
	client.AssertExpectations(t)

	payload := client.Calls[1].Arguments.Get(3).([]byte)
	var msg map[string]any
	require.NoError(t, sonic.Unmarshal(payload, &msg))
	assert.Equal(t, "screen", msg["mode"])
	assert.EqualValues(t, 1700000000, msg["timestamp"])
	assert.EqualValues(t, 1, msg["count"])
	obs := msg["observations"].([]any)
	require.Len(t, obs, 1)
	assert.Equal(t, "Savannah", obs[0].(map[string]any)["map_name"])
}

func TestPublishEmptyScan(t *testing.T) {
	client := &mockClient{}
	client.On("IsConnected").Return(true)
	client.On("Publish", mock.Anything, byte(0), false, mock.Anything).Return(nil)

	p := NewPublisher(client, "atlas", 0, false)
	require.NoError(t, p.Publish(scanner.ModeHovered, nil))

	payload := client.Calls[1].Arguments.Get(3).([]byte)
	assert.Contains(t, string(payload), `"observations":[]`)
	client.AssertCalled(t, "Publish", "atlas/hovered", byte(0), false, mock.Anything)
}

func TestPublishNotConnected(t *testing.T) {
	client := &mockClient{}
	client.On("IsConnected").Return(false)

	p := NewPublisher(client, "atlas", 0, false)
	assert.ErrorIs(t, p.Publish(scanner.ModeScreen, observations()), ErrNotConnected)
	client.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPublishBrokerError(t *testing.T) {
	client := &mockClient{}
	client.On("IsConnected").Return(true)
	client.On("Publish", "atlas/screen", byte(0), false, mock.Anything).Return(errors.New("broker says no"))

	p := NewPublisher(client, "atlas", 0, false)
	err := p.Publish(scanner.ModeScreen, observations())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "atlas/screen")
	client.AssertNotCalled(t, "Publish", "atlas/latest", mock.Anything, mock.Anything, mock.Anything)
}

func TestNilPublisher(t *testing.T) {
	var p *Publisher
	assert.NoError(t, p.Publish(scanner.ModeScreen, observations()))
	p.Close()
}

func TestClose(t *testing.T) {
	client := &mockClient{}
	client.On("Disconnect", uint(250)).Return()
	NewPublisher(client, "atlas", 5, false).Close()
	client.AssertExpectations(t)
}

func TestConnectDisabled(t *testing.T) {
	p, err := Connect(config.MQTTConfig{})
	assert.NoError(t, err)
	assert.Nil(t, p)
}
