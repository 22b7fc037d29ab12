package domain

// Identity represents the semantic classification of a diagram node
type Identity string

const (
	IdentityNeutral           Identity = "neutral" // Not yet determined
	IdentityConcept           Identity = "concept"
	IdentityRole              Identity = "role"
	IdentityAttribute         Identity = "attribute"
	IdentityValueDomain       Identity = "value_domain"
	IdentityIndividual        Identity = "individual"
	IdentityValue             Identity = "value"
	IdentityRoleInstance      Identity = "role_instance"      // ABox role assertion
	IdentityAttributeInstance Identity = "attribute_instance" // ABox attribute assertion
	IdentityUnknown           Identity = "unknown" // Determined to be ambiguous
)

// IdentitySet is the set of identities a node kind is capable of holding
type IdentitySet map[Identity]struct{}

// NewIdentitySet creates a set from the given identities
func NewIdentitySet(identities ...Identity) IdentitySet {
	s := make(IdentitySet, len(identities))
	for _, i := range identities {
		s[i] = struct{}{}
	}
	return s
}

// Contains reports whether the set holds the given identity
func (s IdentitySet) Contains(i Identity) bool {
	_, ok := s[i]
	return ok
}

// nodeIdentities maps every node kind to its capability set.
// Kinds with a single entry have a fixed identity; kinds listing
// IdentityNeutral depend on their graph context and are subject to
// identification.
var nodeIdentities = map[NodeKind]IdentitySet{
	NodeConcept:             NewIdentitySet(IdentityConcept),
	NodeRole:                NewIdentitySet(IdentityRole),
	NodeAttribute:           NewIdentitySet(IdentityAttribute),
	NodeValueDomain:         NewIdentitySet(IdentityValueDomain),
	NodeIndividual:          NewIdentitySet(IdentityIndividual, IdentityValue),
	NodeFacet:               NewIdentitySet(IdentityValue),
	NodeDatatypeRestriction: NewIdentitySet(IdentityValueDomain),
	NodeDomainRestriction:   NewIdentitySet(IdentityConcept),
	NodeRoleChain:           NewIdentitySet(IdentityRole),
	NodeRoleInverse:         NewIdentitySet(IdentityRole),

	NodeEnumeration:      NewIdentitySet(IdentityNeutral, IdentityConcept, IdentityValueDomain),
	NodeRangeRestriction: NewIdentitySet(IdentityNeutral, IdentityConcept, IdentityValueDomain),

	NodeIntersection:  NewIdentitySet(IdentityNeutral, IdentityConcept, IdentityRole, IdentityAttribute, IdentityValueDomain),
	NodeUnion:         NewIdentitySet(IdentityNeutral, IdentityConcept, IdentityRole, IdentityAttribute, IdentityValueDomain),
	NodeDisjointUnion: NewIdentitySet(IdentityNeutral, IdentityConcept, IdentityRole, IdentityAttribute, IdentityValueDomain),
	NodeComplement:    NewIdentitySet(IdentityNeutral, IdentityConcept, IdentityRole, IdentityAttribute, IdentityValueDomain),

	NodePropertyAssertion: NewIdentitySet(IdentityNeutral, IdentityRoleInstance, IdentityAttributeInstance),
}

// initialIdentity maps node kinds with a fixed identity to that identity.
// Neutral-capable kinds start out Neutral; Individual defaults to
// IdentityIndividual until the label marks it as a literal value.
var initialIdentity = map[NodeKind]Identity{
	NodeConcept:             IdentityConcept,
	NodeRole:                IdentityRole,
	NodeAttribute:           IdentityAttribute,
	NodeValueDomain:         IdentityValueDomain,
	NodeIndividual:          IdentityIndividual,
	NodeFacet:               IdentityValue,
	NodeDatatypeRestriction: IdentityValueDomain,
	NodeDomainRestriction:   IdentityConcept,
	NodeRoleChain:           IdentityRole,
	NodeRoleInverse:         IdentityRole,
}
