package secretsclient

import "time"

type Option func(*SecretsClient)

func ConnAttempts(attempts int) Option {
	return func(sc *SecretsClient) {
		sc.connAttempts = attempts
	}
}

func ConnTimeout(timeout time.Duration) Option {
	return func(sc *SecretsClient) {
		sc.connTimeout = timeout
	}
}

func Region(region string) Option {
	return func(sc *SecretsClient) {
		sc.region = region
	}
}
