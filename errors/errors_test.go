package errors

import (
	"fmt"
	"testing"
)

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		kind   *Error
		err    error
		wantIs bool
	}{
		"instance of the same root error": {
			kind:   ErrNotFound,
			err:    ErrNotFound,
			wantIs: true,
		},
		"wrapped root error": {
			kind:   ErrNotFound,
			err:    Wrap(ErrNotFound, "gone"),
			wantIs: true,
		},
		"deeply wrapped root error": {
			kind:   ErrNotFound,
			err:    Wrap(Wrap(ErrNotFound, "gone"), "very gone"),
			wantIs: true,
		},
		"different root error": {
			kind:   ErrNotFound,
			err:    ErrUnauthorized,
			wantIs: false,
		},
		"wrapped different root error": {
			kind:   ErrNotFound,
			err:    Wrap(ErrUnauthorized, "not for you"),
			wantIs: false,
		},
		"stdlib error": {
			kind:   ErrNotFound,
			err:    fmt.Errorf("stdlib"),
			wantIs: false,
		},
		"nil error": {
			kind:   ErrNotFound,
			err:    nil,
			wantIs: false,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.kind.Is(tc.err); got != tc.wantIs {
				t.Fatalf("unexpected result: %v", got)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "never mind"); err != nil {
		t.Fatalf("wrapping nil must return nil, got %+v", err)
	}
}

func TestWrapPreservesMessage(t *testing.T) {
	err := Wrap(ErrAmount, "too little")
	const want = "too little: invalid amount"
	if got := err.Error(); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("reusing an error code must panic")
		}
	}()
	Register(2, "duplicate of unauthorized")
}

func TestRecover(t *testing.T) {
	var err error
	func() {
		defer Recover(&err)
		panic("totally unexpected")
	}()
	if !ErrPanic.Is(err) {
		t.Fatalf("want ErrPanic, got %+v", err)
	}
}

func TestErrorCode(t *testing.T) {
	if code := ErrUnauthorized.Code(); code != 2 {
		t.Fatalf("unexpected code: %d", code)
	}
}
