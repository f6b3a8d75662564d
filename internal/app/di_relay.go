package app

import (
	"fmt"

	cryptoService "github.com/allisson/keyrelay/internal/crypto/service"
	relayHTTP "github.com/allisson/keyrelay/internal/relay/http"
	relayUseCase "github.com/allisson/keyrelay/internal/relay/usecase"
)

// EnvelopeCipher returns the envelope cipher service.
func (c *Container) EnvelopeCipher() cryptoService.EnvelopeCipher {
	c.envelopeCipherInit.Do(func() {
		c.envelopeCipher = cryptoService.NewEnvelopeCipher()
	})
	return c.envelopeCipher
}

// KMSService returns the KMS service used to unwrap the master secret.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// RelayUseCase returns the key relay use case.
func (c *Container) RelayUseCase() relayUseCase.RelayUseCase {
	c.relayUseCaseInit.Do(func() {
		c.relayUC = relayUseCase.NewRelayUseCase(c.config, c.EnvelopeCipher())
	})
	return c.relayUC
}

// keyHandlers builds the key retrieval handlers for the user and app flows.
// Each flow gets its own metrics decorator so key releases are attributed to
// the right caller type.
func (c *Container) keyHandlers() (*relayHTTP.KeyHandler, *relayHTTP.KeyHandler, error) {
	relay := c.RelayUseCase()

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get business metrics for key handlers: %w", err)
	}

	logger := c.Logger()

	userKeyHandler := relayHTTP.NewKeyHandler(
		relayUseCase.NewRelayUseCaseWithMetrics(relay, businessMetrics, "user"),
		logger,
	)
	appKeyHandler := relayHTTP.NewKeyHandler(
		relayUseCase.NewRelayUseCaseWithMetrics(relay, businessMetrics, "app"),
		logger,
	)

	return userKeyHandler, appKeyHandler, nil
}
