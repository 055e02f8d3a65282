package webhook

type fakeService struct {
}

func NewFake() IService {
	return &fakeService{}
}

func (svc *fakeService) Post(_ map[string]interface{}) error {
	return nil
}
