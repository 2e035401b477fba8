package container_test

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/km-arc/go-factory/framework/container"
)

// ── Sample services ───────────────────────────────────────────────────────────

type MyServiceType interface {
	ID() uuid.UUID
	Text() string
}

type MyService struct {
	id   uuid.UUID
	name string
}

func NewMyService() *MyService { return &MyService{id: uuid.New(), name: "MyService"} }

func (s *MyService) ID() uuid.UUID { return s.id }
func (s *MyService) Text() string  { return s.name }

type MockService struct {
	id   uuid.UUID
	name string
}

func NewMockService() *MockService { return &MockService{id: uuid.New(), name: "MockService"} }

func (s *MockService) ID() uuid.UUID { return s.id }
func (s *MockService) Text() string  { return s.name }

type ValueService interface {
	ID() uuid.UUID
	Value() int
	Text() string
}

type ParameterService struct {
	id    uuid.UUID
	value int
}

func NewParameterService(n int) *ParameterService {
	return &ParameterService{id: uuid.New(), value: n}
}

func (s *ParameterService) ID() uuid.UUID { return s.id }
func (s *ParameterService) Value() int    { return s.value }
func (s *ParameterService) Text() string  { return fmt.Sprintf("ParameterService%d", s.value) }

type MockServiceN struct {
	id    uuid.UUID
	value int
}

func NewMockServiceN(n int) *MockServiceN { return &MockServiceN{id: uuid.New(), value: n} }

func (s *MockServiceN) ID() uuid.UUID { return s.id }
func (s *MockServiceN) Value() int    { return s.value }
func (s *MockServiceN) Text() string  { return fmt.Sprintf("MockService%d", s.value) }

type pair struct{ A, B int }

// ── Consumers ─────────────────────────────────────────────────────────────────

type Services1 struct {
	Service *container.Injected[MyServiceType]
	Mock    *container.Injected[MyServiceType]
}

type Services2 struct {
	Service *container.LazyInjected[MyServiceType]
	Mock    *container.LazyInjected[MyServiceType]
}

type Services3 struct {
	Service *container.WeakLazyInjected[*MyService]
	Mock    *container.WeakLazyInjected[MyServiceType]
}

type Services5 struct {
	Service *container.Injected[MyServiceType]
}

// ServicesP owns its child; ServicesC points back weakly.
type ServicesP struct {
	Child *container.LazyInjected[*ServicesC]
	name  string
}

func (p *ServicesP) Test() string { return p.Child.Value().name }

type ServicesC struct {
	Parent *container.WeakLazyInjected[*ServicesP]
	name   string
}

func (c *ServicesC) Test() (string, bool) {
	p, ok := c.Parent.Value()
	if !ok {
		return "", false
	}
	return p.name, true
}

// The same cycle expressed through interfaces, with the back reference held
// in a plain Weak field.
type ProtocolP interface {
	Name() string
	Test() string
}

type ProtocolC interface {
	Name() string
	SetParent(p ProtocolP)
	Test() (string, bool)
}

type protocolClassP struct {
	child ProtocolC
	name  string
}

func (p *protocolClassP) Name() string { return p.name }
func (p *protocolClassP) Test() string { return p.child.Name() }

type protocolClassC struct {
	parent container.Weak[ProtocolP]
	name   string
}

func (c *protocolClassC) Name() string          { return c.name }
func (c *protocolClassC) SetParent(p ProtocolP) { c.parent = container.MakeWeak(p) }

func (c *protocolClassC) Test() (string, bool) {
	p, ok := c.parent.Value()
	if !ok {
		return "", false
	}
	return p.Name(), true
}

// ── Fixtures ──────────────────────────────────────────────────────────────────

// fixtures declares the sample factories on a fresh container.
type fixtures struct {
	c *container.Container

	myServiceType   *container.Factory[MyServiceType]
	mockService     *container.Factory[MyServiceType]
	sharedService   *container.Factory[*MyService]
	cachedService   *container.Factory[*MyService]
	optionalService *container.Factory[MyServiceType]
	nilService      *container.Factory[*MyService]

	parameterService       *container.ParameterFactory[int, ValueService]
	scopedParameterService *container.ParameterFactory[int, ValueService]
	tupleService           *container.ParameterFactory[pair, ValueService]

	services1 *container.Factory[*Services1]
	services2 *container.Factory[*Services2]
	services3 *container.Factory[*Services3]
	services5 *container.Factory[*Services5]
	servicesP *container.Factory[*ServicesP]
	servicesC *container.Factory[*ServicesC]
	protocolP *container.Factory[ProtocolP]
	protocolC *container.Factory[ProtocolC]

	// builds counts construction-function calls per factory name
	builds map[string]*atomic.Int64
}

func newFixtures() *fixtures {
	c := container.New()
	fx := &fixtures{c: c, builds: make(map[string]*atomic.Int64)}

	fx.myServiceType = declare(fx, "myServiceType", nil, func() MyServiceType { return NewMyService() })
	fx.mockService = declare(fx, "mockService", nil, func() MyServiceType { return NewMockService() })
	fx.sharedService = declare(fx, "sharedService", c.WeakCached(), NewMyService)
	fx.cachedService = declare(fx, "cachedService", c.Cached(), NewMyService)
	fx.optionalService = declare(fx, "optionalService", nil, func() MyServiceType { return NewMyService() })
	fx.nilService = declare(fx, "nilService", c.Cached(), func() *MyService { return nil })

	fx.parameterService = container.NewParameterFactory(c, "parameterService", nil,
		func(n int) ValueService { return NewParameterService(n) })
	fx.scopedParameterService = container.NewParameterFactory(c, "scopedParameterService", c.Cached(),
		func(n int) ValueService { return NewParameterService(n) })
	fx.tupleService = container.NewParameterFactory(c, "tupleService", nil,
		func(p pair) ValueService { return NewParameterService(p.A + p.B) })

	fx.services1 = declare(fx, "services1", nil, func() *Services1 {
		return &Services1{
			Service: container.Inject(fx.myServiceType),
			Mock:    container.Inject(fx.mockService),
		}
	})
	fx.services2 = declare(fx, "services2", nil, func() *Services2 {
		return &Services2{
			Service: container.InjectLazy(fx.myServiceType),
			Mock:    container.InjectLazy(fx.mockService),
		}
	})
	fx.services3 = declare(fx, "services3", nil, func() *Services3 {
		return &Services3{
			Service: container.InjectWeak(fx.sharedService),
			Mock:    container.InjectWeak(fx.mockService),
		}
	})
	fx.services5 = declare(fx, "services5", nil, func() *Services5 {
		return &Services5{Service: container.Inject(fx.optionalService)}
	})
	fx.servicesP = declare(fx, "servicesP", c.WeakCached(), func() *ServicesP {
		return &ServicesP{Child: container.InjectLazy(fx.servicesC), name: "Parent"}
	})
	fx.servicesC = declare(fx, "servicesC", c.WeakCached(), func() *ServicesC {
		return &ServicesC{Parent: container.InjectWeak(fx.servicesP), name: "Child"}
	})
	fx.protocolP = declare(fx, "protocolP", c.WeakCached(), func() ProtocolP {
		p := &protocolClassP{child: fx.protocolC.Get(), name: "Parent"}
		p.child.SetParent(p)
		return p
	})
	fx.protocolC = declare(fx, "protocolC", c.WeakCached(), func() ProtocolC {
		return &protocolClassC{name: "Child"}
	})
	return fx
}

// declare wraps fn so fx.built(name) counts its calls.
func declare[T any](fx *fixtures, name string, scope container.Scope, fn func() T) *container.Factory[T] {
	n := &atomic.Int64{}
	fx.builds[name] = n
	return container.NewFactory(fx.c, name, scope, func() T {
		n.Add(1)
		return fn()
	})
}

func (fx *fixtures) built(name string) int64 { return fx.builds[name].Load() }

// collect runs the collector until weak handles to unreachable objects have
// been cleared.
func collect() {
	runtime.GC()
	runtime.GC()
}
