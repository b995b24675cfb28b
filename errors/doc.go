/*
Package errors implements the error taxonomy of the piggy bank client.

Reuse the root errors declared in this package. Each of them stands for one
category of failure a caller may want to react to: a query that could not
reach the node (ErrNetwork), an object that is absent (ErrNotFound), a
transaction refused by the signer or the chain (ErrRejected), an action that is
already in flight (ErrPending) and so on.

Create errors using ErrXyz.New("...") or errors.Wrap(err, "...") at the point
of creation to ensure a stacktrace is attached. If you wrap multiple times, only
the first wrap records the stacktrace.

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context

	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created
*/
package errors
