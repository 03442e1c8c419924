package gtsmgr

import (
	"reflect"

	"go.uber.org/mock/gomock"

	"github.com/sarchlab/akita/v4/sim"
)

// MockPort is a hand-written stand-in for a mockgen-generated sim.Port
// mock, kept small because only Send's call count and argument matter to
// the tests that use it. Every other method satisfies the interface with
// a value a CAP-side send path never inspects.
type MockPort struct {
	sim.HookableBase
	ctrl     *gomock.Controller
	recorder *MockPortRecorder
	name     string
}

// MockPortRecorder records expected Send calls on a MockPort.
type MockPortRecorder struct {
	mock *MockPort
}

// NewMockPort returns a MockPort controlled by ctrl.
func NewMockPort(ctrl *gomock.Controller, name string) *MockPort {
	m := &MockPort{ctrl: ctrl, name: name}
	m.recorder = &MockPortRecorder{mock: m}
	return m
}

// EXPECT returns the recorder used to set expectations on Send.
func (m *MockPort) EXPECT() *MockPortRecorder { return m.recorder }

// Send records the call through the controller and returns whatever the
// matching expectation was set up to return.
func (m *MockPort) Send(msg sim.Msg) *sim.SendError {
	ret := m.ctrl.Call(m, "Send", msg)
	err, _ := ret[0].(*sim.SendError)
	return err
}

// Send declares an expectation that Send is called with an argument
// matching arg.
func (r *MockPortRecorder) Send(arg interface{}) *gomock.Call {
	return r.mock.ctrl.RecordCallWithMethodType(r.mock, "Send", reflect.TypeOf((*MockPort)(nil).Send), arg)
}

func (m *MockPort) Name() string                    { return m.name }
func (m *MockPort) AsRemote() sim.RemotePort         { return sim.RemotePort(m.name) }
func (m *MockPort) SetConnection(sim.Connection)     {}
func (m *MockPort) Component() sim.Component         { return nil }
func (m *MockPort) Deliver(sim.Msg) *sim.SendError   { return nil }
func (m *MockPort) NotifyAvailable()                 {}
func (m *MockPort) RetrieveOutgoing() sim.Msg        { return nil }
func (m *MockPort) PeekOutgoing() sim.Msg            { return nil }
func (m *MockPort) CanSend() bool                    { return true }
func (m *MockPort) RetrieveIncoming() sim.Msg        { return nil }
func (m *MockPort) PeekIncoming() sim.Msg            { return nil }
