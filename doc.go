/*
Package uliza is a USSD menu engine for feature-phone services: it turns static
menu trees into stateful phone dialogs over the stateless gateway callback
protocol.

A telco gateway POSTs a form for every keypress, carrying the session id, the
caller's phone number, the dialed service code and the full accumulated input
string ("1*2*1"). The engine reconstructs where the caller is in the
conversation from the persisted session plus that input string, advances the
selected menu tree, and answers with a single bounded text screen prefixed CON
(keep the dialog open) or END (close it).

# Concept

Menus are plain data: a Tree of Nodes, each with a body template, a transition
table keyed by input token, and optionally a hook that fetches live domain data
into the session's context bag. The engine owns navigation, replay protection,
sliding expiry and concurrency; your application owns the hooks and the
notification channel. This keeps business services decoupled from telephony.

# Key Properties

  - Deterministic navigation: the same session and input always produce the
    same screen, which is also what makes gateway retries and duplicate
    deliveries safe.
  - Conditional persistence: every request is a single version-guarded
    read-modify-write, so instances can be scaled horizontally behind the
    gateway with no sticky routing.
  - Graceful degradation: a failing hook degrades its screen, a failing store
    ends the dialog politely; the gateway always receives a renderable answer.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/savannahworks/uliza"
		"github.com/savannahworks/uliza/pkg/menus"
	)

	func main() {
		eng, err := uliza.New(menus.NewRegistry(menus.SampleProviders()))
		if err != nil {
			log.Fatal(err)
		}

		// One gateway callback: caller pressed 1 on the wildlife menu.
		resp := eng.Handle(context.Background(), uliza.Request{
			SessionID:   "ATUid_123",
			CallerID:    "+254712345678",
			ServiceCode: "*384*10#",
			Text:        "1",
		})
		log.Println(resp.Text)
	}

The bundled server in cmd/uliza wires the same engine to the Redis session
store, the HTTP gateway adapter and the expiry janitor.
*/
package uliza
