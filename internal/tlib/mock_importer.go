package tlib

import (
	"reflect"

	"go.uber.org/mock/gomock"
)

// MockImporter is a hand-written stand-in for what `mockgen` would
// produce from the Importer interface above, kept in the package rather
// than generated so the driver's tests have no go:generate step to run.
type MockImporter struct {
	ctrl     *gomock.Controller
	recorder *MockImporterMockRecorder
}

type MockImporterMockRecorder struct {
	mock *MockImporter
}

func NewMockImporter(ctrl *gomock.Controller) *MockImporter {
	m := &MockImporter{ctrl: ctrl}
	m.recorder = &MockImporterMockRecorder{m}
	return m
}

func (m *MockImporter) EXPECT() *MockImporterMockRecorder {
	return m.recorder
}

func (m *MockImporter) Import(name string) ([]Decl, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Import", name)
	decls, _ := ret[0].([]Decl)
	err, _ := ret[1].(error)
	return decls, err
}

func (mr *MockImporterMockRecorder) Import(name interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Import", reflect.TypeOf((*MockImporter)(nil).Import), name)
}
