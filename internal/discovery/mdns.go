// ABOUTME: mDNS advertisement for the spectrum feed
// ABOUTME: Announces the websocket endpoint so dashboards can find running players
package discovery

import (
	"fmt"
	"log"
	"net"
	"sync"

	"github.com/hashicorp/mdns"
)

const (
	// ServiceType is the DNS-SD service advertised for spectrum feeds
	ServiceType = "_audioscope._tcp"

	// FeedPath is published as a TXT record
	FeedPath = "/spectrum"
)

// Config holds discovery configuration
type Config struct {
	InstanceName string
	Port         int
}

// Advertiser publishes the feed service via mDNS
type Advertiser struct {
	config Config
	server *mdns.Server
	mu     sync.Mutex
}

// NewAdvertiser creates an advertiser for the given feed
func NewAdvertiser(config Config) *Advertiser {
	return &Advertiser{config: config}
}

// TXTRecords returns the TXT entries published with the service
func (a *Advertiser) TXTRecords() []string {
	return []string{"path=" + FeedPath}
}

// Start begins answering mDNS queries
func (a *Advertiser) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		return nil
	}
	if a.config.Port <= 0 {
		return fmt.Errorf("invalid feed port %d", a.config.Port)
	}

	ips, err := getLocalIPs()
	if err != nil {
		return fmt.Errorf("failed to get local IPs: %w", err)
	}

	service, err := mdns.NewMDNSService(
		a.config.InstanceName,
		ServiceType,
		"",
		"",
		a.config.Port,
		ips,
		a.TXTRecords(),
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("failed to create mdns server: %w", err)
	}
	a.server = server

	log.Printf("Advertising mDNS service: %s on port %d (type: %s)", a.config.InstanceName, a.config.Port, ServiceType)
	return nil
}

// Stop withdraws the advertisement
func (a *Advertiser) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server == nil {
		return
	}
	if err := a.server.Shutdown(); err != nil {
		log.Printf("Warning: mdns shutdown error: %v", err)
	}
	a.server = nil
}

// getLocalIPs returns non-loopback IPv4 addresses of interfaces that are up
func getLocalIPs() ([]net.IP, error) {
	var ips []net.IP

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
				ips = append(ips, ipnet.IP)
			}
		}
	}

	return ips, nil
}
