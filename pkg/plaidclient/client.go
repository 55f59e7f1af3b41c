// Package plaidclient builds configured Plaid API clients and keeps the
// environment name → base URL mapping in one place so tests can point a
// named environment at a local HTTP server.
package plaidclient

import "github.com/plaid/plaid-go/plaid"

var environments = map[string]plaid.Environment{
	"Sandbox":     plaid.Sandbox,
	"Development": plaid.Development,
	"Production":  plaid.Production,
}

// SetEnvironment overrides the base URL for a named environment.
func SetEnvironment(name string, env plaid.Environment) {
	environments[name] = env
}

// Environment reports the base URL registered under name.
func Environment(name string) (plaid.Environment, bool) {
	env, ok := environments[name]
	return env, ok
}

// New returns an API client authenticated with the given credentials. An
// unrecognized environment name is passed through as a raw base URL, which
// lets a config file target a proxy or mock server directly.
func New(clientID, secret, env string) *plaid.APIClient {
	cfg := plaid.NewConfiguration()
	cfg.AddDefaultHeader("PLAID-CLIENT-ID", clientID)
	cfg.AddDefaultHeader("PLAID-SECRET", secret)
	if e, ok := environments[env]; ok {
		cfg.UseEnvironment(e)
	} else {
		cfg.UseEnvironment(plaid.Environment(env))
	}
	return plaid.NewAPIClient(cfg)
}
