package dummy

import (
	"context"

	"github.com/kbukum/providerkit/errors"
	"github.com/kbukum/providerkit/logger"
	"github.com/kbukum/providerkit/provider"
)

// KeyProviderName is the registered type of KeyProvider.
const KeyProviderName = "key"

// KeyProvider logs in with a public key and is ready immediately.
type KeyProvider struct {
	*provider.Base
	recorder

	publicKey string
	log       *logger.Logger
}

// NewKeyProvider creates a KeyProvider on base.
func NewKeyProvider(base *provider.Base, publicKey string) *KeyProvider {
	return &KeyProvider{
		Base:      base,
		publicKey: publicKey,
		log:       logger.Get("analytics").WithComponent(base.Name()),
	}
}

// PublicKey returns the configured key.
func (p *KeyProvider) PublicKey() string { return p.publicKey }

// Initialize implements provider.Provider.
func (p *KeyProvider) Initialize(ctx context.Context) error {
	if p.publicKey == "" {
		return errors.InvalidInput("public_key", "public key is required")
	}
	p.MarkReady()
	return nil
}

// LogEvent implements analytics.Provider.
func (p *KeyProvider) LogEvent(ctx context.Context, name string, params map[string]string) error {
	if !p.IsReady() {
		return errors.NotReady(p.Name())
	}
	p.record(name, params)
	p.log.WithContext(ctx).Info("LogEvent "+name, logger.Fields(logger.FieldEvent, name))
	return nil
}
