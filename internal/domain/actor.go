package domain

// Actor identifies who performs an operation. Users themselves are owned
// by the external account subsystem; only the id and the claims decoded
// from its access token travel through this module.
type Actor struct {
	Id    UserId
	Admin bool
	Guest bool
}

// Guest is the anonymous actor used when no valid token is present.
var Guest = Actor{Guest: true}

func (a Actor) Authenticated() bool { return !a.Guest }
