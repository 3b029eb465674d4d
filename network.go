package main

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/crypto/pbkdf2"
)

// connectPollInterval is how often the link is checked while waiting.
const connectPollInterval = time.Second

// NetworkConnector joins the configured wireless network and waits until the
// device has an address.  There is no link-up event to wait on, so the wait
// is a plain poll.
type NetworkConnector struct {
	cfg       NetworkConfig
	logger    *slog.Logger
	join      func(ctx context.Context, cfg NetworkConfig, psk string) error
	localAddr func(iface string) (net.IP, bool)
	sleep     func(time.Duration)
}

// NewNetworkConnector returns a connector that joins through NetworkManager.
func NewNetworkConnector(cfg NetworkConfig, logger *slog.Logger) *NetworkConnector {
	return &NetworkConnector{
		cfg:       cfg,
		logger:    logger,
		join:      nmcliJoin,
		localAddr: interfaceAddr,
		sleep:     time.Sleep,
	}
}

// Connect asks for the network once and then blocks until an IPv4 address is
// assigned.  It never gives up; a failed join request is logged and the wait
// goes on, since the link may come up through the OS anyway.  It returns nil
// only when ctx is cancelled.
func (n *NetworkConnector) Connect(ctx context.Context) net.IP {
	psk := ""
	if n.cfg.Passphrase != "" {
		psk = derivePSK(n.cfg.SSID, n.cfg.Passphrase)
	}
	if err := n.join(ctx, n.cfg, psk); err != nil {
		n.logger.Warn("join request failed, waiting for link", "ssid", n.cfg.SSID, "error", err)
	}
	for {
		if ip, ok := n.localAddr(n.cfg.Interface); ok {
			n.logger.Info("connected to network", "ssid", n.cfg.SSID, "addr", ip.String())
			return ip
		}
		if ctx.Err() != nil {
			return nil
		}
		n.sleep(connectPollInterval)
	}
}

// derivePSK computes the WPA2 pre-shared key (PBKDF2-HMAC-SHA1, 4096 rounds,
// SSID as salt).  A passphrase that already is a 64 digit hex key is returned
// unchanged.
func derivePSK(ssid, passphrase string) string {
	if len(passphrase) == 64 {
		if _, err := hex.DecodeString(passphrase); err == nil {
			return passphrase
		}
	}
	return hex.EncodeToString(pbkdf2.Key([]byte(passphrase), []byte(ssid), 4096, 32, sha1.New))
}

// nmcliJoin asks NetworkManager to connect.  It is only a request; Connect
// decides when the link is usable.
func nmcliJoin(ctx context.Context, cfg NetworkConfig, psk string) error {
	out, err := nmcliCommand(ctx, cfg, psk).CombinedOutput()
	if err != nil {
		return fmt.Errorf("nmcli: %w: %s", err, out)
	}
	return nil
}

// nmcliCommand builds the join command.  The key is answered on stdin via
// --ask so it never shows up in the process arguments.
func nmcliCommand(ctx context.Context, cfg NetworkConfig, psk string) *exec.Cmd {
	var args []string
	if psk != "" {
		args = append(args, "--ask")
	}
	args = append(args, "device", "wifi", "connect", cfg.SSID)
	if cfg.Interface != "" {
		args = append(args, "ifname", cfg.Interface)
	}
	cmd := exec.CommandContext(ctx, "nmcli", args...)
	if psk != "" {
		cmd.Stdin = strings.NewReader(psk + "\n")
	}
	return cmd
}

// interfaceAddr returns the first non-loopback IPv4 address on iface, or on
// any interface when iface is empty.
func interfaceAddr(iface string) (net.IP, bool) {
	var ifaces []net.Interface
	if iface != "" {
		ifi, err := net.InterfaceByName(iface)
		if err != nil {
			return nil, false
		}
		ifaces = []net.Interface{*ifi}
	} else {
		all, err := net.Interfaces()
		if err != nil {
			return nil, false
		}
		ifaces = all
	}
	for _, ifi := range ifaces {
		if ifi.Flags&net.FlagUp == 0 || ifi.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := ifi.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipnet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			if ip4 := ipnet.IP.To4(); ip4 != nil && !ip4.IsLoopback() {
				return ip4, true
			}
		}
	}
	return nil, false
}
