package core

import "tagcore/pkg/domain"

type (
	Tag           = domain.Tag
	Payload       = domain.Payload
	Change        = domain.Change
	ChangeKind    = domain.ChangeKind
	Listener      = domain.Listener
	ListenerFunc  = domain.ListenerFunc
	Snapshot      = domain.Snapshot
	SnapshotStore = domain.SnapshotStore
)

const (
	ChangeCreated = domain.ChangeCreated
	ChangeUpdated = domain.ChangeUpdated
	ChangeRemoved = domain.ChangeRemoved
)

const DefaultName = domain.DefaultName
