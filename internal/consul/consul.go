package consul

import (
	"fmt"
	"net"
	"strconv"

	"github.com/hashicorp/consul/api"
	"github.com/pkg/errors"
)

type Registrar interface {
	Register(address string, port int) (string, error)
	Deregister(serviceID string) error
}

type client struct {
	cfg    *Config
	client *api.Client
}

func NewClient(cfg *Config) (Registrar, error) {
	cl, err := api.NewClient(cfg.toApiConfig())
	if err != nil {
		return nil, errors.Wrap(err, "create consul client")
	}
	return &client{client: cl, cfg: cfg}, nil
}

// Register announces the service with an HTTP health check against its own health
// endpoint and returns the service id.
func (c *client) Register(address string, port int) (string, error) {
	reg := Registration(c.cfg, address, port)
	if err := c.client.Agent().ServiceRegister(reg); err != nil {
		return "", errors.Wrap(err, "register service in consul")
	}
	return reg.ID, nil
}

func (c *client) Deregister(serviceID string) error {
	return errors.Wrap(c.client.Agent().ServiceDeregister(serviceID), "deregister service in consul")
}

func Registration(cfg *Config, address string, port int) *api.AgentServiceRegistration {
	hostPort := net.JoinHostPort(address, strconv.Itoa(port))
	reg := &api.AgentServiceRegistration{
		ID:      fmt.Sprintf("%s-%s", cfg.ServiceName, hostPort),
		Name:    cfg.ServiceName,
		Address: address,
		Port:    port,
	}
	if cfg.Health != nil {
		reg.Check = &api.AgentServiceCheck{
			HTTP:     fmt.Sprintf("http://%s%s", hostPort, cfg.Health.Path),
			Interval: cfg.Health.Interval,
			Timeout:  cfg.Health.Timeout,
		}
	}
	return reg
}
