package handlers

import (
	intconfig "rentalbackend/internal/config"
	"rentalbackend/internal/events"
	"rentalbackend/internal/gateway"
)

// Collaborators shared by the handlers. Configure is called once from main;
// zero values keep tests and offline runs working (nil publisher is a no-op,
// nil gateway falls back to the offline one inside the services).
var (
	paymentGW gateway.PaymentGateway
	blobStore gateway.BlobStore
	eventBus  *events.Publisher
	jwtSecret []byte
)

func Configure(e intconfig.Env, pub *events.Publisher) {
	jwtSecret = []byte(e.JWTSecret)
	eventBus = pub
	if e.PaymentGatewayURL != "" {
		paymentGW = &gateway.HTTPPaymentGateway{BaseURL: e.PaymentGatewayURL, Timeout: e.GatewayTimeout}
	}
	if e.BlobStoreURL != "" {
		blobStore = &gateway.HTTPBlobStore{BaseURL: e.BlobStoreURL, Timeout: e.GatewayTimeout}
	}
}
