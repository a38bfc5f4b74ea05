package app

import (
	"fmt"
	"math/big"

	"github.com/allisson/envelope/internal/config"
	keystoreDomain "github.com/allisson/envelope/internal/keystore/domain"
	"github.com/allisson/envelope/internal/keystore/hsm"
	keystoreService "github.com/allisson/envelope/internal/keystore/service"
)

// KMSService returns the KMS service used to open keepers.
func (c *Container) KMSService() keystoreService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = keystoreService.NewKMSService()
	})
	return c.kmsService
}

// KeyStore returns the key store holding the key-encryption key.
func (c *Container) KeyStore() (keystoreService.KeyStore, error) {
	var err error
	c.keyStoreInit.Do(func() {
		c.keyStore, err = c.initKeyStore()
		if err != nil {
			c.initErrors["keyStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyStore"]; exists {
		return nil, storedErr
	}
	return c.keyStore, nil
}

// keyPairDefaults builds the generation parameters for new key pairs.
func (c *Container) keyPairDefaults() keystoreDomain.KeyPairSpec {
	return keystoreDomain.KeyPairSpec{
		Alias:          c.config.KEKAlias,
		ValidityPeriod: c.config.KEKValidity,
		Serial:         big.NewInt(c.config.KEKSerial),
		Bits:           c.config.KEKRSABits,
	}
}

// initKeyStore opens the configured key store backend.
func (c *Container) initKeyStore() (keystoreService.KeyStore, error) {
	logger := c.Logger()
	defaults := c.keyPairDefaults()

	switch c.config.KeystoreBackend {
	case config.KeystoreBackendPKCS11:
		store, err := hsm.New(hsm.Config{
			Library:    c.config.PKCS11Library,
			TokenLabel: c.config.PKCS11TokenLabel,
			Pin:        c.config.PKCS11Pin,
		}, defaults, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open pkcs11 key store: %w", err)
		}
		return store, nil

	case config.KeystoreBackendSealed:
		keeper, err := c.KMSService().OpenKeeper(c.ctx, c.config.KeystoreKeeperURI)
		if err != nil {
			return nil, fmt.Errorf("failed to open keeper for sealed key store: %w", err)
		}

		store, err := keystoreService.OpenSealedKeyStore(
			c.ctx,
			c.config.KeystoreBucketURL,
			keeper,
			defaults,
			logger,
		)
		if err != nil {
			_ = keeper.Close()
			return nil, fmt.Errorf("failed to open sealed key store: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported key store backend: %s", c.config.KeystoreBackend)
	}
}
