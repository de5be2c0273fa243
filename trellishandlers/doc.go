// Package trellishandlers provides ready-made handler wrappers built
// on inject.Wrap: request ID generation, panic recovery, and HTTP
// Basic Authentication.
//
// Each wrapper composes its own parameter manifest with the wrapped
// handler's, so injection keeps working through the wrapping: names a
// wrapper provides (like "request_id" or "username") disappear from
// the composed manifest, and names it requires (like "request") are
// added.
//
// Wrappers apply to the final, fully composed handler, before it is
// routed:
//
//	h := inject.NewHandler(getReport, inject.Required("username"))
//	h, err := trellishandlers.BasicAuth(h, trellishandlers.BasicAuthConfig{
//		Credentials: map[string]string{"admin": "swordfish"},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	t.Path("reports").Route(trellishandlers.Recovery(h, trellishandlers.RecoveryConfig{}), "GET")
package trellishandlers
