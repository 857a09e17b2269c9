package discovery

import (
	"fmt"

	"github.com/hashicorp/consul/api"
)

// Registrar registers the HTTP service with a local Consul agent and
// deregisters it on shutdown. Consul performs liveness checks against the
// service's /healthz endpoint.
type Registrar struct {
	client    *api.Client
	serviceID string
}

// Register announces the service to Consul with an HTTP health check.
func Register(serviceName, host string, port int) (*Registrar, error) {
	client, err := api.NewClient(api.DefaultConfig())
	if err != nil {
		return nil, err
	}

	serviceID := fmt.Sprintf("%s-%s-%d", serviceName, host, port)

	registration := &api.AgentServiceRegistration{
		ID:      serviceID,
		Name:    serviceName,
		Address: host,
		Port:    port,
		Check: &api.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/healthz", host, port),
			Interval:                       "10s",
			Timeout:                        "2s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}

	if err := client.Agent().ServiceRegister(registration); err != nil {
		return nil, err
	}

	return &Registrar{
		client:    client,
		serviceID: serviceID,
	}, nil
}

// Deregister removes the service from Consul.
func (r *Registrar) Deregister() error {
	return r.client.Agent().ServiceDeregister(r.serviceID)
}
