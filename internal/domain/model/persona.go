package model

// Persona is one fixed panelist: a completion-service identity paired with a
// synthesis voice and a display image. The catalog is loaded once from config
// and never mutated afterwards.
type Persona struct {
	Name         string `yaml:"name"`
	CompletionID string `yaml:"completion_id"`
	VoiceID      string `yaml:"voice_id"`
	Thumbnail    string `yaml:"thumbnail"`
}

// DefaultPanel is the built-in persona catalog used when config supplies none.
func DefaultPanel() []Persona {
	return []Persona{
		{
			Name:         "TRUMP",
			CompletionID: "asst_6No1xLNFeAj98k3nbza81esI",
			VoiceID:      "SpeK5bcBd7LBqhYBiK1R",
			Thumbnail:    "https://www.whitehouse.gov/wp-content/uploads/2021/01/45_donald_trump.jpg?w=1250",
		},
		{
			Name:         "MICKEY",
			CompletionID: "asst_gY24HV1yA4oFVIou3MUYeuRl",
			VoiceID:      "dfZGXKiIzjizWtJ0NgPy",
			Thumbnail:    "https://cdn.pixabay.com/photo/2022/05/30/04/50/mickey-mouse-7230486_1280.png",
		},
		{
			Name:         "FARHAN AKHTAR",
			CompletionID: "asst_Gxuwa1HTg7NnmzL0ewWe9JaL",
			VoiceID:      "6MoEUz34rbRrmmyxgRm4",
			Thumbnail:    "https://upload.wikimedia.org/wikipedia/commons/4/49/Farhan_Akhtar_promoting_The_Sky_Is_Pink_%28cropped%29.jpg",
		},
		{
			Name:         "ROGAN",
			CompletionID: "asst_bSVuDSZjJcmCmCSKV3SLYWEF",
			VoiceID:      "pujH7g2H19Q7U8Gevr98",
			Thumbnail:    "https://img.particlenews.com/image.php?type=thumbnail_580x000&url=2k36nr_0wUP0UgH00",
		},
	}
}
