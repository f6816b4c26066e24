// Package pointer feeds terminal pointer input into a drag session.
//
// Terminal mouse reports carry a button mask rather than press and release
// transitions. Translator turns a stream of *tcell.EventMouse into Events
// with explicit actions, scaled from cells to viewport pixels:
//
//	tr := pointer.NewTranslator(pointer.WithCellSize(8, 16))
//	ev, ok := tr.Translate(mouseEvent)
//
// # Handler
//
// Handler routes Events to a session. A press over a block grabs it, drag
// events become pointer moves, and the release ends the gesture. Escape
// cancels the active gesture:
//
//	h := pointer.NewHandler(controller, layout)
//	outcome, done := h.HandleEvent(ctx, tcellEvent)
//
// # Thread Safety
//
// Translator and Handler are safe for concurrent use.
package pointer
