package period

type service struct{}
