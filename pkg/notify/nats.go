package notify

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nkeys"
	"go.uber.org/zap"

	"github.com/kunnath/EDEKA-Analytics/pkg/util"
)

// Notifier publishes run summaries to NATS so downstream consumers (cache
// invalidation, alerting) can react to a completed sync. A nil Notifier is
// valid and publishes nothing.
type Notifier struct {
	cfg *Config
	nc  *nats.Conn
}

func NewNotifier(cfg *Config) (*Notifier, error) {
	if cfg == nil {
		return nil, nil
	}
	n := &Notifier{cfg: cfg}
	if err := n.connect(); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Notifier) connect() error {
	opt := nats.GetDefaultOptions()
	opt.Name = util.AppName + " " + util.GetVersion().Version
	opt.Url = n.cfg.Endpoint
	opt.NoCallbacksAfterClientClose = true
	opt.ReconnectWait = 2 * time.Second
	opt.MaxReconnect = -1
	opt.AllowReconnect = true
	opt.ReconnectJitter = 500 * time.Millisecond
	opt.DisconnectedErrCB = func(conn *nats.Conn, err error) {
		if err != nil {
			zap.S().Debugf("*** nats disconnected: %s ***", err.Error())
		}
	}
	opt.ReconnectedCB = func(conn *nats.Conn) {
		zap.S().Debugf("*** nats reconnected ***")
	}

	if account := n.cfg.GetDefaultAccount(); account != nil {
		opt.User = account.UserName
		opt.Password = account.Password
		opt.Nkey = account.NKey
		if account.Seed != "" {
			opt.SignatureCB = func(b []byte) ([]byte, error) {
				sk, err := nkeys.FromSeed(util.StringToBytes(account.Seed))
				if err != nil {
					return nil, err
				}
				return sk.Sign(b)
			}
		}
	}

	nc, err := opt.Connect()
	if err != nil {
		return err
	}
	n.nc = nc
	return nil
}

// PublishSummary sends payload as JSON to the configured subject. Failures
// are logged, never fatal: notification is best-effort.
func (n *Notifier) PublishSummary(payload any) {
	if n == nil || n.nc == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		zap.S().Errorf("marshal sync summary: %v", err)
		return
	}
	if err := n.nc.Publish(n.cfg.Subject, data); err != nil {
		zap.S().Errorf("publish sync summary: %v", err)
	}
}

func (n *Notifier) Close() {
	if n == nil || n.nc == nil {
		return
	}
	_ = n.nc.Drain()
	n.nc.Close()
	zap.S().Debugf("*** nats closed ***")
}
