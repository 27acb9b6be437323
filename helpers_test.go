package banyan

import (
	"errors"
	"testing"
)

// Shared test types and constructors used across test files.

// mustRegister calls t.Fatal if registration fails.
func mustRegister(t *testing.T, c Container, name string, ctor Constructor, opts ...RegisterOption) {
	t.Helper()
	if err := c.Register(name, ctor, opts...); err != nil {
		t.Fatalf("Register(%q): %v", name, err)
	}
}

type testLogger struct{ Prefix string }
type testConfig struct{ DSN string }

type testDatabase struct {
	Config *testConfig
	Logger *testLogger
}

type testUserRepo struct {
	DB     *testDatabase
	Logger *testLogger
}

func newTestLogger(...any) (any, error) { return &testLogger{Prefix: "app"}, nil }
func newTestConfig(...any) (any, error) { return &testConfig{DSN: "postgres://localhost"}, nil }

func newTestDatabase(deps ...any) (any, error) {
	return &testDatabase{
		Config: deps[0].(*testConfig),
		Logger: deps[1].(*testLogger),
	}, nil
}

func newTestUserRepo(deps ...any) (any, error) {
	return &testUserRepo{
		DB:     deps[0].(*testDatabase),
		Logger: deps[1].(*testLogger),
	}, nil
}

// registerChain registers the config -> logger -> database -> repo fixture
// graph as singletons.
func registerChain(t *testing.T, c Container) {
	t.Helper()
	mustRegister(t, c, "config", newTestConfig)
	mustRegister(t, c, "logger", newTestLogger)
	mustRegister(t, c, "db", newTestDatabase, WithDependencies("config", "logger"))
	mustRegister(t, c, "repo", newTestUserRepo, WithDependencies("db", "logger"))
}

// Mutually dependent pair for cycle tests.
type testCircA struct{ B *testCircB }
type testCircB struct{ A *testCircA }

// testConn is a pooled fixture with resettable state.
type testConn struct {
	ID     int
	Dirty  bool
	Resets int
}

func resetTestConn(instance any) {
	conn := instance.(*testConn)
	conn.Dirty = false
	conn.Resets++
}

// testClosable records close calls for disposal tests.
type testClosable struct {
	Name   string
	Closed bool
	Order  *[]string // shared slice to record close order
}

func (c *testClosable) Close() error {
	c.Closed = true
	if c.Order != nil {
		*c.Order = append(*c.Order, c.Name)
	}
	return nil
}

// testFailCloser implements io.Closer but returns an error.
type testFailCloser struct{}

func (f *testFailCloser) Close() error {
	return errors.New("close failed")
}

// closableCtor returns a constructor producing a named testClosable that
// records its close order in the shared slice.
func closableCtor(name string, order *[]string) Constructor {
	return func(...any) (any, error) {
		return &testClosable{Name: name, Order: order}, nil
	}
}
