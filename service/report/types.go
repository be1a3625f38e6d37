package report

type service struct{}
