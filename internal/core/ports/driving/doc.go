// Package driving defines the interfaces through which the outside world
// drives the core: running an audit and observing its progress.
package driving
