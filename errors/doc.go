/*
Package errors implements custom error interfaces for the wallet state
machine.

The idea is to reuse as many errors from this package as possible and
define custom package errors only when really necessary. Errors are
registered with a unique ABCI code so that results can be inspected by
light clients without parsing strings.

Use Wrap or Wrapf to attach context to an error. The first wrap call
attaches a stack trace as well.
*/
package errors
