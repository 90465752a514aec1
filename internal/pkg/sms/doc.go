// Package sms defines the contract for delivering text messages.
//
// The main purpose is to keep the rest of the application independent from a
// specific SMS carrier. Use cases work with the Channel interface and branch
// on the returned Result; the concrete delivery mechanism (a simulated
// channel for development, the Twilio REST API for production) is implemented
// elsewhere in this package and selected by configuration.
package sms
