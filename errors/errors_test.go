package errors

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
)

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		kind      *Error
		err       error
		wantMatch bool
	}{
		"instance of the same root": {
			kind:      ErrNotFound,
			err:       ErrNotFound,
			wantMatch: true,
		},
		"wrapped root": {
			kind:      ErrNotFound,
			err:       Wrap(ErrNotFound, "gone"),
			wantMatch: true,
		},
		"deeply wrapped root": {
			kind:      ErrNotFound,
			err:       Wrap(Wrap(ErrNotFound, "gone"), "forever"),
			wantMatch: true,
		},
		"different root": {
			kind:      ErrNotFound,
			err:       ErrUnauthorized,
			wantMatch: false,
		},
		"stdlib error": {
			kind:      ErrNotFound,
			err:       fmt.Errorf("not found"),
			wantMatch: false,
		},
		"nil error": {
			kind:      ErrNotFound,
			err:       nil,
			wantMatch: false,
		},
		"nil kind matches nil error": {
			kind:      nil,
			err:       nil,
			wantMatch: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.kind.Is(tc.err); got != tc.wantMatch {
				t.Fatalf("unexpected match result: %v", got)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "whatever"); err != nil {
		t.Fatalf("want nil, got %+v", err)
	}
}

func TestWrapAttachesStackTraceOnce(t *testing.T) {
	err := Wrap(ErrState, "inner")
	if stackTrace(err) == nil {
		t.Fatal("wrapped error must carry a stack trace")
	}

	outer := Wrap(err, "outer")
	// The inner frame location must be preserved by the outer wrap.
	inner := stackTrace(err)
	if got := stackTrace(outer); fmt.Sprint(got[0]) != fmt.Sprint(inner[0]) {
		t.Fatal("outer wrap must not overwrite the stack trace")
	}
}

func TestWrappedErrorMessage(t *testing.T) {
	err := Wrap(ErrDuplicate, "this one exists")
	const want = "this one exists: duplicate"
	if got := err.Error(); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestRegisterDuplicateCodePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	Register(2, "under already used code")
}

func TestAppend(t *testing.T) {
	if err := Append(nil, nil); err != nil {
		t.Fatalf("appending only nil errors must result in nil: %+v", err)
	}

	err := Append(nil, ErrNotFound, nil, ErrState)
	if err == nil {
		t.Fatal("want an error")
	}
	if !ErrNotFound.Contains(err) {
		t.Fatal("combined error must contain ErrNotFound")
	}
	if !ErrState.Contains(err) {
		t.Fatal("combined error must contain ErrState")
	}
	if ErrEmpty.Contains(err) {
		t.Fatal("combined error must not contain ErrEmpty")
	}
}

func TestRecover(t *testing.T) {
	var err error
	func() {
		defer Recover(&err)
		panic("totally unexpected")
	}()
	if !ErrPanic.Is(err) {
		t.Fatalf("want a panic error, got %+v", err)
	}
}

func TestStackTraceOfStdlibWrap(t *testing.T) {
	cause := errors.New("bang")
	err := Wrap(cause, "wrapped")
	if stackTrace(err) == nil {
		t.Fatal("stdlib cause must be given a stack trace when wrapped")
	}
}
