package tendabeli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const (
	devicePort     = 5000
	requestTimeout = 3 * time.Second

	pathSetState = "setSta"
	pathGetState = "getSta"
)

var (
	// ErrUnreachable means the address is invalid or the device could not be connected to
	ErrUnreachable = errors.New("unable to communicate with device")
	// ErrUnexpectedFault is any other failure while talking to the device
	ErrUnexpectedFault = errors.New("unexpected fault while making API call")
	// ErrUnknownStatus means the device replied without a usable status field
	ErrUnknownStatus = errors.New("unable to determine status")
	// ErrInconsistentStatus means the device reports a state other than the one requested
	ErrInconsistentStatus = errors.New("inconsistent smart plug status")
)

var _ PowerControllable = (*Plugin)(nil)

// Plugin controls a single Tenda Beli smart plug
type Plugin struct {
	store  SettingsStore
	config Config
	client *resty.Client
	log    logrus.FieldLogger
}

// Option configures a Plugin
type Option func(*Plugin)

// WithLogger sets the logger, defaults to the logrus standard logger
func WithLogger(log logrus.FieldLogger) Option {
	return func(p *Plugin) {
		p.log = log
	}
}

// WithTransport replaces the HTTP transport used to reach the device
func WithTransport(rt http.RoundTripper) Option {
	return func(p *Plugin) {
		p.client.SetTransport(rt)
	}
}

// New creates a plugin reading its settings from store, settings are only
// loaded once the host calls SettingsInitialized
func New(store SettingsStore, opts ...Option) (*Plugin, error) {
	if store == nil {
		return nil, fmt.Errorf("settings store is required")
	}

	p := &Plugin{
		store:  store,
		client: resty.New().SetTimeout(requestTimeout),
		log:    logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.log = p.log.WithField("component", "tendabeli")
	p.client.SetLogger(p.log)

	return p, nil
}

func (p *Plugin) deviceURL(path string) (string, error) {
	if p.config.Address == "" {
		return "", fmt.Errorf("no address configured")
	}

	u := fmt.Sprintf("http://%s:%d/%s", p.config.Address, devicePort, path)
	if _, err := url.Parse(u); err != nil {
		return "", err
	}

	return u, nil
}

// send posts payload to path on the device, a nil response is never returned without an error
func (p *Plugin) send(path string, payload string) (*resty.Response, error) {
	u, err := p.deviceURL(path)
	if err != nil {
		p.log.Error("Unable to communicate with device. Check settings.")
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	req := p.client.R()
	if payload != "" {
		req.SetBody(payload)
	}

	resp, err := req.Post(u)
	if err != nil {
		if isUnreachable(err) {
			p.log.Error("Unable to communicate with device. Check settings.")
			return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
		}

		p.log.WithError(err).Errorf("Exception while making API call to %s", u)
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedFault, err)
	}

	p.log.WithFields(logrus.Fields{
		"payload":     payload,
		"status_code": resp.StatusCode(),
		"text":        resp.String(),
	}).Debug("Device replied")

	if resp.IsError() {
		return nil, fmt.Errorf("%w: %s: %s", ErrUnexpectedFault, resp.Request.URL, resp.Status())
	}

	return resp, nil
}

// isUnreachable is true for failures to resolve or connect to the device,
// a device that accepts the connection but does not reply in time is a fault
func isUnreachable(err error) bool {
	var opErr *net.OpError
	var dnsErr *net.DNSError

	return errors.As(err, &opErr) || errors.As(err, &dnsErr)
}

// reportsOn is true when status equals 1, numerically or as true
func reportsOn(status json.RawMessage) (bool, error) {
	var v any
	err := json.Unmarshal(status, &v)
	if err != nil {
		return false, err
	}

	switch s := v.(type) {
	case float64:
		return s == 1, nil
	case bool:
		return s, nil
	default:
		return false, nil
	}
}

// SetState switches the plug and verifies the state the device reports back
func (p *Plugin) SetState(on bool) error {
	req := setStateRequest{}
	if on {
		req.Status = 1
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return err
	}

	resp, err := p.send(pathSetState, string(payload))
	if err != nil {
		p.log.Error("Unable to determine status. Check settings.")
		return err
	}

	var res setStateResponse
	err = json.Unmarshal(resp.Body(), &res)
	if err != nil || len(res.Status) == 0 {
		p.log.Error("Unable to determine status. Check settings.")
		return fmt.Errorf("%w: %s", ErrUnknownStatus, resp.String())
	}

	reported, err := reportsOn(res.Status)
	if err != nil {
		p.log.Error("Unable to determine status. Check settings.")
		return fmt.Errorf("%w: %s", ErrUnknownStatus, resp.String())
	}

	if reported != on {
		p.log.Error("Inconsistent smart plug status. Check settings.")
		return fmt.Errorf("%w: requested %d, device reports %s", ErrInconsistentStatus, req.Status, res.Status)
	}

	return nil
}

// State queries the device for the current relay state
func (p *Plugin) State() (bool, error) {
	resp, err := p.send(pathGetState, "")
	if err != nil {
		return false, err
	}

	var res getStateResponse
	err = json.Unmarshal(resp.Body(), &res)
	if err != nil || res.Data == nil || len(res.Data.Status) == 0 {
		p.log.Error("Unable to determine status. Check settings.")
		return false, fmt.Errorf("%w: %s", ErrUnknownStatus, resp.String())
	}

	on, err := reportsOn(res.Data.Status)
	if err != nil {
		p.log.Error("Unable to determine status. Check settings.")
		return false, fmt.Errorf("%w: %s", ErrUnknownStatus, resp.String())
	}

	return on, nil
}

// TurnOn switches the printer on, failures are only logged
func (p *Plugin) TurnOn() {
	p.log.Debug("Switching PSU On")
	_ = p.SetState(true)
}

// TurnOff switches the printer off, failures are only logged
func (p *Plugin) TurnOff() {
	p.log.Debug("Switching PSU Off")
	_ = p.SetState(false)
}

// QueryState is true when the device reports power on, any failure reads as off
func (p *Plugin) QueryState() bool {
	on, _ := p.State()
	return on
}
