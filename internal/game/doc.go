// Package game implements the table and session logic for Set.
//
// Two controllers share the deck, the evaluator and the event contract:
//
//   - Timed is the meter-based session. A health meter starts at 100,
//     drains one point per tick and moves with every success (+20),
//     failure (-20), hint (-10) and premature re-deal (-20). The session
//     ends when the meter reaches zero.
//   - Classic is untimed. When no set is on the table the player deals
//     three more cards; there is no losing condition.
//
// # Basic Usage
//
//	g := game.NewTimed(randutil.New(seed), game.WithLogger(logger))
//	g.Subscribe(game.SubscriberFunc(func(e game.Event) { ... }))
//	if err := g.Start(ctx); err != nil { ... }
//	defer g.Close()
//	g.SelectSlot(0)
//
// # Deterministic Testing
//
// Every delay runs on a quartz.Clock, so tests inject quartz.NewMock and
// advance time explicitly. WithDeck fixes the card order and WithTimings
// with zero delays makes judging and card replacement synchronous.
//
// # Concurrency
//
// All state changes happen with the controller's mutex held: player
// actions, ticks and deferred replacement steps alike. Events are queued
// while locked and published after unlocking, so subscribers may call back
// into the controller.
package game
