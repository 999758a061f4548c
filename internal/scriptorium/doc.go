// Package scriptorium is the request/response layer shared by every
// transport. It turns transport-neutral requests into calls on the imaging,
// paleography, ocr, findspot and report packages, enforces the limits taken
// from configuration and logs each call.
//
// A Service holds no per-request state and is safe for concurrent use.
package scriptorium
