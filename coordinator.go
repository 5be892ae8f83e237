package main

import (
	"fmt"

	"github.com/ripienaar/tendactl/tendabeli"
	"github.com/sirupsen/logrus"
)

var _ tendabeli.Registrar = (*psuControl)(nil)

// psuControl is a minimal PSU control coordinator, it drives the first registered plugin
type psuControl struct {
	plugins []tendabeli.PowerControllable
	log     logrus.FieldLogger
}

func newPSUControl(log logrus.FieldLogger) *psuControl {
	return &psuControl{log: log.WithField("component", "psucontrol")}
}

func (c *psuControl) RegisterPlugin(p tendabeli.PowerControllable) {
	c.plugins = append(c.plugins, p)
	c.log.Debugf("Registered plugin %T", p)
}

func (c *psuControl) Registered() int {
	return len(c.plugins)
}

func (c *psuControl) active() (tendabeli.PowerControllable, error) {
	if len(c.plugins) == 0 {
		return nil, fmt.Errorf("no PSU plugin registered")
	}

	return c.plugins[0], nil
}

func (c *psuControl) TurnOn() error {
	p, err := c.active()
	if err != nil {
		return err
	}

	p.TurnOn()

	return nil
}

func (c *psuControl) TurnOff() error {
	p, err := c.active()
	if err != nil {
		return err
	}

	p.TurnOff()

	return nil
}

func (c *psuControl) QueryState() (bool, error) {
	p, err := c.active()
	if err != nil {
		return false, err
	}

	return p.QueryState(), nil
}
