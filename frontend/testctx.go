package frontend

// FakeContext is an in-memory TypeContext, the reference implementation
// used by this repository's own tests in place of a real frontend — the
// same role analysistest's fake driver plays for go/analysis passes.
type FakeContext struct {
	paths           map[DefID]string
	local           map[DefID]bool
	crate           map[DefID]string
	kind            map[DefID]DefKind
	generics        map[DefID][]TypeParam
	predicates      map[DefID][]TraitPredicate
	traitItems      map[DefID][]DefID
	implTraitRef    map[DefID]TraitRef
	providedMethods map[DefID][]DefID
	receiverCat     map[DefID]ReceiverCategory
	owningTrait     map[DefID]DefID
	assocTypeNames  map[DefID][]string
}

// NewTestContext returns an empty FakeContext ready to be populated with
// Def and the other setters below.
func NewTestContext() *FakeContext {
	return &FakeContext{
		paths:           map[DefID]string{},
		local:           map[DefID]bool{},
		crate:           map[DefID]string{},
		kind:            map[DefID]DefKind{},
		generics:        map[DefID][]TypeParam{},
		predicates:      map[DefID][]TraitPredicate{},
		traitItems:      map[DefID][]DefID{},
		implTraitRef:    map[DefID]TraitRef{},
		providedMethods: map[DefID][]DefID{},
		receiverCat:     map[DefID]ReceiverCategory{},
		owningTrait:     map[DefID]DefID{},
		assocTypeNames:  map[DefID][]string{},
	}
}

// Def registers a local definition's path and kind.
func (c *FakeContext) Def(id DefID, path string, kind DefKind) *FakeContext {
	c.paths[id] = path
	c.local[id] = true
	c.kind[id] = kind
	return c
}

// External registers a definition belonging to another crate.
func (c *FakeContext) External(id DefID, path, crate string) *FakeContext {
	c.paths[id] = path
	c.local[id] = false
	c.crate[id] = crate
	return c
}

func (c *FakeContext) WithGenerics(id DefID, generics ...TypeParam) *FakeContext {
	c.generics[id] = generics
	return c
}

func (c *FakeContext) WithPredicates(id DefID, preds ...TraitPredicate) *FakeContext {
	c.predicates[id] = preds
	return c
}

func (c *FakeContext) WithTraitItems(traitID DefID, items ...DefID) *FakeContext {
	c.traitItems[traitID] = items
	return c
}

func (c *FakeContext) WithImplTraitRef(implID DefID, ref TraitRef) *FakeContext {
	c.implTraitRef[implID] = ref
	return c
}

func (c *FakeContext) WithProvidedMethods(traitID DefID, methods ...DefID) *FakeContext {
	c.providedMethods[traitID] = methods
	return c
}

func (c *FakeContext) WithReceiver(methodID DefID, cat ReceiverCategory) *FakeContext {
	c.receiverCat[methodID] = cat
	return c
}

func (c *FakeContext) WithOwningTrait(methodID, traitID DefID) *FakeContext {
	c.owningTrait[methodID] = traitID
	return c
}

func (c *FakeContext) WithAssocTypeNames(traitID DefID, names ...string) *FakeContext {
	c.assocTypeNames[traitID] = names
	return c
}

func (c *FakeContext) QualifiedPath(id DefID) string { return c.paths[id] }
func (c *FakeContext) IsLocal(id DefID) bool         { return c.local[id] }
func (c *FakeContext) ExternalCrate(id DefID) string { return c.crate[id] }
func (c *FakeContext) Kind(id DefID) DefKind         { return c.kind[id] }
func (c *FakeContext) Generics(id DefID) []TypeParam { return c.generics[id] }

func (c *FakeContext) Predicates(id DefID) []TraitPredicate { return c.predicates[id] }
func (c *FakeContext) TraitItems(id DefID) []DefID          { return c.traitItems[id] }

func (c *FakeContext) ImplTraitRef(id DefID) (TraitRef, bool) {
	ref, ok := c.implTraitRef[id]
	return ref, ok
}

func (c *FakeContext) ProvidedTraitMethods(traitID DefID) []DefID {
	return c.providedMethods[traitID]
}

func (c *FakeContext) ReceiverCategory(methodID DefID) ReceiverCategory {
	return c.receiverCat[methodID]
}

func (c *FakeContext) OwningTrait(methodID DefID) (DefID, bool) {
	id, ok := c.owningTrait[methodID]
	return id, ok
}

func (c *FakeContext) AssociatedTypeNames(traitID DefID) []string {
	return c.assocTypeNames[traitID]
}

var _ TypeContext = (*FakeContext)(nil)
