package app

import (
	"fmt"

	secretkeyUsecase "github.com/allisson/envelope/internal/secretkey/usecase"
	textcipherHTTP "github.com/allisson/envelope/internal/textcipher/http"
	textcipherService "github.com/allisson/envelope/internal/textcipher/service"
	textcipherUsecase "github.com/allisson/envelope/internal/textcipher/usecase"
)

// TextCipher returns the AES-GCM text cipher service.
func (c *Container) TextCipher() textcipherService.TextCipher {
	c.textCipherInit.Do(func() {
		c.textCipher = textcipherService.NewTextCipher()
	})
	return c.textCipher
}

// SecretKeyManager returns the named secret key manager.
func (c *Container) SecretKeyManager() (secretkeyUsecase.SecretKeyManager, error) {
	var err error
	c.secretKeyManagerInit.Do(func() {
		c.secretKeyManager, err = c.initSecretKeyManager()
		if err != nil {
			c.initErrors["secretKeyManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretKeyManager"]; exists {
		return nil, storedErr
	}
	return c.secretKeyManager, nil
}

// TextCipherUseCase returns the text encryption use case.
func (c *Container) TextCipherUseCase() (textcipherUsecase.TextCipherUseCase, error) {
	var err error
	c.textCipherUseCaseInit.Do(func() {
		c.textCipherUseCase, err = c.initTextCipherUseCase()
		if err != nil {
			c.initErrors["textCipherUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["textCipherUseCase"]; exists {
		return nil, storedErr
	}
	return c.textCipherUseCase, nil
}

// CryptoHandler returns the HTTP handler for encrypt and decrypt endpoints.
func (c *Container) CryptoHandler() (*textcipherHTTP.CryptoHandler, error) {
	var err error
	c.cryptoHandlerInit.Do(func() {
		c.cryptoHandler, err = c.initCryptoHandler()
		if err != nil {
			c.initErrors["cryptoHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cryptoHandler"]; exists {
		return nil, storedErr
	}
	return c.cryptoHandler, nil
}

// StatusHandler returns the HTTP handler for the key status endpoint.
func (c *Container) StatusHandler() (*textcipherHTTP.StatusHandler, error) {
	var err error
	c.statusHandlerInit.Do(func() {
		c.statusHandler, err = c.initStatusHandler()
		if err != nil {
			c.initErrors["statusHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["statusHandler"]; exists {
		return nil, storedErr
	}
	return c.statusHandler, nil
}

func (c *Container) initSecretKeyManager() (secretkeyUsecase.SecretKeyManager, error) {
	provider, err := c.ContentKeyProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get content key provider for secret key manager: %w", err)
	}

	manager := secretkeyUsecase.NewSecretKeyManager(provider, c.Logger())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for secret key manager: %w", err)
		}
		manager = secretkeyUsecase.NewSecretKeyManagerWithMetrics(manager, businessMetrics)
	}

	return manager, nil
}

func (c *Container) initTextCipherUseCase() (textcipherUsecase.TextCipherUseCase, error) {
	manager, err := c.SecretKeyManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret key manager for text cipher use case: %w", err)
	}

	useCase := textcipherUsecase.NewTextCipherUseCase(manager, c.TextCipher(), c.Logger())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for text cipher use case: %w", err)
		}
		useCase = textcipherUsecase.NewTextCipherUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

func (c *Container) initCryptoHandler() (*textcipherHTTP.CryptoHandler, error) {
	useCase, err := c.TextCipherUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get text cipher use case for crypto handler: %w", err)
	}
	return textcipherHTTP.NewCryptoHandler(useCase, c.Logger()), nil
}

func (c *Container) initStatusHandler() (*textcipherHTTP.StatusHandler, error) {
	provider, err := c.ContentKeyProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get content key provider for status handler: %w", err)
	}
	return textcipherHTTP.NewStatusHandler(provider), nil
}
