package core

import "errors"

// ErrMissingStableID is returned when container context arrives without
// the identity that structural equality hangs off.
var ErrMissingStableID = errors.New("container context has no stable id")

// ContainerConfig is the raw hierarchy context handed to construction
// by the capture pipeline.
type ContainerConfig struct {
	Title    string
	Token    string
	StableID string
	Visible  bool
	Parent   *Container
}

// Container is the hierarchy base shared by every node kind in a
// captured window tree: identity, title, and parent/child navigation.
// Leaf entities compose one and layer their own predicates on top of
// its base ones.
type Container struct {
	title    string
	token    string
	stableID string
	visible  bool
	parent   *Container
	children []*Container
}

// NewContainer validates the hierarchy context and links the node under
// its parent. The stable ID is the only required piece: without it the
// node cannot participate in structural comparison.
func NewContainer(cfg ContainerConfig) (*Container, error) {
	if cfg.StableID == "" {
		return nil, ErrMissingStableID
	}
	c := &Container{
		title:    cfg.Title,
		token:    cfg.Token,
		stableID: cfg.StableID,
		visible:  cfg.Visible,
		parent:   cfg.Parent,
	}
	if cfg.Parent != nil {
		cfg.Parent.children = append(cfg.Parent.children, c)
	}
	return c, nil
}

func (c *Container) Title() string    { return c.title }
func (c *Container) Token() string    { return c.token }
func (c *Container) StableID() string { return c.stableID }

func (c *Container) Parent() *Container { return c.parent }

// Children returns the child nodes in attach order. The returned slice
// is shared; callers must not mutate it.
func (c *Container) Children() []*Container { return c.children }

// IsVisible is the base visibility predicate, the raw signal recorded
// by the capture source. Leaf kinds combine it with their own state.
func (c *Container) IsVisible() bool { return c.visible }

// IsFullscreen is the base predicate; plain containers never are.
// Window states replace it with a flags check.
func (c *Container) IsFullscreen() bool { return false }
