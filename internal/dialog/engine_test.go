package dialog

import (
	"reflect"
	"testing"

	"tanukibot/internal/constants"
)

func mustAsk(t *testing.T, effects []Effect, want Prompt) {
	t.Helper()
	if len(effects) != 1 || effects[0].Kind != EffectAsk || effects[0].Prompt != want {
		t.Fatalf("effects = %+v, want Ask(%s)", effects, want)
	}
}

func TestLeadFlow(t *testing.T) {
	conv, eff := StartLead()
	mustAsk(t, eff, PromptFIO)

	conv, eff = Step(conv, TextEvent("  Иванов Иван  "))
	mustAsk(t, eff, PromptCarInfo)
	if conv.State != StateCollectingCarInfo || conv.Fields.FIO != "  Иванов Иван  " {
		t.Fatalf("after fio: %+v", conv)
	}

	conv, eff = Step(conv, TextEvent("Toyota Prius, 2018\nдо 1.5 млн "))
	mustAsk(t, eff, PromptPhone)

	conv, eff = Step(conv, TextEvent(" 89991234567 "))
	if conv.Active() {
		t.Errorf("conversation still active: %+v", conv)
	}
	want := Lead{FIO: "  Иванов Иван  ", CarInfo: "Toyota Prius, 2018\nдо 1.5 млн ", Phone: "89991234567"}
	if len(eff) != 1 || eff[0].Kind != EffectSubmitLead || eff[0].Lead != want {
		t.Errorf("effects = %+v, want SubmitLead(%+v)", eff, want)
	}
}

func TestPhoneValidation(t *testing.T) {
	base := Conversation{Flow: FlowLead, State: StateCollectingPhone, Fields: Fields{FIO: "A", CarInfo: "B"}}

	conv, eff := Step(base, TextEvent("12345"))
	mustAsk(t, eff, PromptPhoneInvalid)
	if !reflect.DeepEqual(conv, base) {
		t.Errorf("invalid phone changed state: %+v", conv)
	}

	_, eff = Step(base, ContactEvent("+1 555 000"))
	if len(eff) != 1 || eff[0].Kind != EffectSubmitLead || eff[0].Lead.Phone != "+1 555 000" {
		t.Errorf("contact should bypass validation, got %+v", eff)
	}

	_, eff = Step(base, ContactEvent(" +79991234567"))
	if len(eff) != 1 || eff[0].Lead.Phone != " +79991234567" {
		t.Errorf("contact phone must be stored as shared, got %+v", eff)
	}

	_, eff = Step(base, ContactEvent("  "))
	mustAsk(t, eff, PromptPhone)

	for _, phone := range []string{"+1999123456", "+19991234567", "8 999 123 45 67"} {
		conv, eff = Step(base, TextEvent(phone))
		mustAsk(t, eff, PromptPhoneInvalid)
		if !reflect.DeepEqual(conv, base) {
			t.Errorf("%q changed state: %+v", phone, conv)
		}
	}

	_, eff = Step(base, PhotoEvent("photo"))
	mustAsk(t, eff, PromptPhone)
}

func TestOrderSimilarFlow(t *testing.T) {
	conv, eff := StartOrderSimilar("Honda Fit 2019")
	mustAsk(t, eff, PromptOrderSimilarFIO)

	conv, eff = Step(conv, TextEvent("Петров"))
	mustAsk(t, eff, PromptPhone)
	if conv.State != StateCollectingPhone {
		t.Fatalf("state = %s, want collecting_phone", conv.State)
	}

	_, eff = Step(conv, TextEvent("9991234567"))
	if len(eff) != 1 || eff[0].Kind != EffectSubmitLead {
		t.Fatalf("effects = %+v", eff)
	}
	lead := eff[0].Lead
	if !lead.Similar || lead.CarInfo != "Из подборки: Honda Fit 2019" || lead.FIO != "Петров" {
		t.Errorf("lead = %+v", lead)
	}
}

func TestEmptyTextReprompts(t *testing.T) {
	conv, _ := StartLead()
	next, eff := Step(conv, TextEvent("   "))
	mustAsk(t, eff, PromptFIO)
	if next.State != StateCollectingFIO {
		t.Errorf("state = %s", next.State)
	}

	next, eff = Step(conv, PhotoEvent("p"))
	mustAsk(t, eff, PromptFIO)
	if next.Fields.FIO != "" {
		t.Errorf("photo leaked into fio: %+v", next)
	}
}

func TestCancel(t *testing.T) {
	starts := []func() (Conversation, []Effect){StartLead, StartAssign, StartRemove, StartCarIntake}
	for _, start := range starts {
		conv, _ := start()
		next, eff := Step(conv, TextEvent(constants.BTN_CANCEL))
		if next.Active() {
			t.Errorf("%s: still active after cancel", conv.Flow)
		}
		if len(eff) != 1 || eff[0].Kind != EffectCancel {
			t.Errorf("%s: effects = %+v, want Cancel", conv.Flow, eff)
		}
	}
}

func TestManagerFlows(t *testing.T) {
	conv, eff := StartAssign()
	mustAsk(t, eff, PromptTargetIdentifier)
	next, eff := Step(conv, TextEvent(" @petr "))
	if next.Active() || len(eff) != 1 || eff[0].Kind != EffectAssignManager || eff[0].Identifier != "@petr" {
		t.Errorf("assign: %+v %+v", next, eff)
	}

	conv, _ = StartRemove()
	_, eff = Step(conv, TextEvent("42"))
	if len(eff) != 1 || eff[0].Kind != EffectRemoveManager || eff[0].Identifier != "42" {
		t.Errorf("remove: %+v", eff)
	}
}

func TestCarIntakeFlow(t *testing.T) {
	conv, eff := StartCarIntake()
	mustAsk(t, eff, PromptCountry)

	// Текст вместо выбора страны - повтор вопроса.
	conv, eff = Step(conv, TextEvent("Япония"))
	mustAsk(t, eff, PromptCountry)
	conv, eff = Step(conv, CountryEvent("germany"))
	mustAsk(t, eff, PromptCountry)

	conv, eff = Step(conv, CountryEvent(constants.COUNTRY_JAPAN))
	mustAsk(t, eff, PromptPhotos)

	// Завершение без фото - повтор, без перехода.
	conv, eff = Step(conv, TextEvent(constants.BTN_FINISH_PHOTOS))
	mustAsk(t, eff, PromptNoPhotos)
	if conv.State != StateCollectingPhotos {
		t.Fatalf("state = %s, want collecting_photos", conv.State)
	}

	for _, id := range []string{"p1", "p2", "p3"} {
		conv, eff = Step(conv, PhotoEvent(id))
		if len(eff) != 0 {
			t.Fatalf("photo produced effects: %+v", eff)
		}
	}

	conv, eff = Step(conv, TextEvent("что-то"))
	mustAsk(t, eff, PromptPhotos)

	conv, eff = Step(conv, TextEvent(constants.BTN_FINISH_PHOTOS))
	mustAsk(t, eff, PromptDescription)

	next, eff := Step(conv, TextEvent("Toyota Aqua 2017, 80 000 км"))
	if next.Active() {
		t.Error("conversation still active after description")
	}
	want := CarDraft{Country: constants.COUNTRY_JAPAN, Description: "Toyota Aqua 2017, 80 000 км", Photos: []string{"p1", "p2", "p3"}}
	if len(eff) != 1 || eff[0].Kind != EffectSaveCar || !reflect.DeepEqual(eff[0].Car, want) {
		t.Errorf("effects = %+v, want SaveCar(%+v)", eff, want)
	}
}

func TestStepDoesNotMutateInput(t *testing.T) {
	conv := Conversation{Flow: FlowCarIntake, State: StateCollectingPhotos, Fields: Fields{Country: "korea", Photos: make([]string, 1, 4)}}
	conv.Fields.Photos[0] = "p1"
	next, _ := Step(conv, PhotoEvent("p2"))
	if len(conv.Fields.Photos) != 1 {
		t.Errorf("input photos mutated: %v", conv.Fields.Photos)
	}
	if len(next.Fields.Photos) != 2 {
		t.Errorf("next photos = %v", next.Fields.Photos)
	}
}

func TestIdleIgnoresEvents(t *testing.T) {
	next, eff := Step(Conversation{}, TextEvent("hello"))
	if next.Active() || eff != nil {
		t.Errorf("idle step = %+v, %+v", next, eff)
	}
}

func TestInterrupts(t *testing.T) {
	for _, s := range []string{"/start", "/start car_5", "/clear", "/start@tanuki_bot", constants.BTN_CALC_COST} {
		if !Interrupts(s) {
			t.Errorf("Interrupts(%q) = false", s)
		}
	}
	for _, s := range []string{"Иван", constants.BTN_FAQ, "/help", "start"} {
		if Interrupts(s) {
			t.Errorf("Interrupts(%q) = true", s)
		}
	}
}

func TestPromptTexts(t *testing.T) {
	for p := range promptTexts {
		if p.Text() == "" {
			t.Errorf("prompt %s has no text", p)
		}
	}
}
