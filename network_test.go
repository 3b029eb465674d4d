package main

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivePSK(t *testing.T) {
	// IEEE 802.11i-2004 test vector.
	assert.Equal(t,
		"f42c6fc52df0ebef9ebb4b90b38a5f902e83fe1b135a70e23aed762e9710a12e",
		derivePSK("IEEE", "password"))

	raw := strings.Repeat("ab", 32)
	assert.Equal(t, raw, derivePSK("any", raw))
}

func TestNmcliCommandKeepsKeyOffArgs(t *testing.T) {
	psk := derivePSK("office", "secret123")
	cmd := nmcliCommand(context.Background(), NetworkConfig{SSID: "office", Interface: "wlan0"}, psk)

	assert.Equal(t, []string{"nmcli", "--ask", "device", "wifi", "connect", "office", "ifname", "wlan0"}, cmd.Args)
	assert.NotContains(t, strings.Join(cmd.Args, " "), psk)
	require.NotNil(t, cmd.Stdin)
	in, err := io.ReadAll(cmd.Stdin)
	require.NoError(t, err)
	assert.Equal(t, psk+"\n", string(in))
}

func TestNmcliCommandOpenNetwork(t *testing.T) {
	cmd := nmcliCommand(context.Background(), NetworkConfig{SSID: "guest"}, "")
	assert.Equal(t, []string{"nmcli", "device", "wifi", "connect", "guest"}, cmd.Args)
	assert.Nil(t, cmd.Stdin)
}

type fakeLink struct {
	joins   []string
	joinErr error
	upAfter int
	checks  int
	sleeps  []time.Duration
	onSleep func()
}

func (f *fakeLink) connector(cfg NetworkConfig) *NetworkConnector {
	n := NewNetworkConnector(cfg, discardLogger())
	n.join = func(_ context.Context, cfg NetworkConfig, psk string) error {
		f.joins = append(f.joins, cfg.SSID+"/"+psk)
		return f.joinErr
	}
	n.localAddr = func(string) (net.IP, bool) {
		f.checks++
		if f.upAfter >= 0 && f.checks > f.upAfter {
			return net.IPv4(192, 168, 1, 42), true
		}
		return nil, false
	}
	n.sleep = func(d time.Duration) {
		f.sleeps = append(f.sleeps, d)
		if f.onSleep != nil {
			f.onSleep()
		}
	}
	return n
}

func TestConnectWaitsForAddress(t *testing.T) {
	link := &fakeLink{upAfter: 3}
	ip := link.connector(NetworkConfig{SSID: "IEEE", Passphrase: "password"}).Connect(context.Background())

	require.NotNil(t, ip)
	assert.Equal(t, "192.168.1.42", ip.String())
	assert.Equal(t, []time.Duration{time.Second, time.Second, time.Second}, link.sleeps)
	require.Len(t, link.joins, 1)
	assert.Equal(t, "IEEE/f42c6fc52df0ebef9ebb4b90b38a5f902e83fe1b135a70e23aed762e9710a12e", link.joins[0])
}

func TestConnectOpenNetworkSendsNoKey(t *testing.T) {
	link := &fakeLink{}
	link.connector(NetworkConfig{SSID: "guest"}).Connect(context.Background())
	assert.Equal(t, []string{"guest/"}, link.joins)
	assert.Empty(t, link.sleeps)
}

func TestConnectKeepsWaitingAfterJoinError(t *testing.T) {
	link := &fakeLink{joinErr: errors.New("nmcli: not found"), upAfter: 1}
	ip := link.connector(NetworkConfig{SSID: "office", Passphrase: "secret123"}).Connect(context.Background())
	assert.NotNil(t, ip)
	assert.Len(t, link.sleeps, 1)
}

func TestConnectReturnsNilWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	link := &fakeLink{upAfter: -1}
	link.onSleep = func() {
		if len(link.sleeps) == 5 {
			cancel()
		}
	}
	ip := link.connector(NetworkConfig{SSID: "office"}).Connect(ctx)
	assert.Nil(t, ip)
	assert.Len(t, link.sleeps, 5)
}
