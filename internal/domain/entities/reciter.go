package entities

// Reciter is an audio recitation edition.
type Reciter struct {
	ID   string // edition identifier on the remote API
	Name string // display name
}

// Reciters lists the recitations offered to users.
var Reciters = []Reciter{
	{ID: "ar.alafasy", Name: "مشاري راشد العفاسي"},
	{ID: "ar.abdulbasitmurattal", Name: "عبد الباسط عبد الصمد (مرتل)"},
	{ID: "ar.abdullahbasfar", Name: "عبد الله بصفر"},
	{ID: "ar.abdurrahmaansudais", Name: "عبد الرحمن السديس"},
	{ID: "ar.hanirifai", Name: "هاني الرفاعي"},
	{ID: "ar.husary", Name: "محمود خليل الحصري"},
	{ID: "ar.mahermuaiqly", Name: "ماهر المعيقلي"},
	{ID: "ar.minshawi", Name: "محمد صديق المنشاوي"},
	{ID: "ar.muhammadayyoub", Name: "محمد أيوب"},
	{ID: "ar.saoodshuraym", Name: "سعود الشريم"},
}

// FindReciter returns the reciter with the given id.
func FindReciter(id string) (Reciter, bool) {
	for _, r := range Reciters {
		if r.ID == id {
			return r, true
		}
	}
	return Reciter{}, false
}
