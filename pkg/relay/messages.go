package relay

// CommandPlaceholder in Messages.Help is replaced with the configured image
// command, slash included.
const CommandPlaceholder = "{command}"

// Messages holds the fixed user-facing replies and the fixed instructions
// sent to the generative backend.
type Messages struct {
	EmptyPrompt        string `json:"empty_prompt"`
	GenericError       string `json:"generic_error"`
	AudioTooLarge      string `json:"audio_too_large"`
	TranscriptLabel    string `json:"transcript_label"`
	ImagePromptMissing string `json:"image_prompt_missing"`
	ImageFailed        string `json:"image_failed"`
	ImageRejected      string `json:"image_rejected"`
	ImageDisabled      string `json:"image_disabled"`
	Help               string `json:"help"`

	TranscribeInstruction string `json:"transcribe_instruction"`
	PhotoInstruction      string `json:"photo_instruction"`
}

func DefaultMessages() Messages {
	return Messages{
		EmptyPrompt:        "Пожалуйста, введите запрос.",
		GenericError:       "Произошла ошибка. Попробуйте еще раз.",
		AudioTooLarge:      "Не удалось обработать аудио. Возможно, файл слишком большой.",
		TranscriptLabel:    "Расшифровка: ",
		ImagePromptMissing: "Пожалуйста, опишите изображение после команды.",
		ImageFailed:        "Не удалось сгенерировать изображение.",
		ImageRejected:      "Запрос отклонён: возможно, он нарушает правила безопасности. Попробуйте другое описание.",
		ImageDisabled:      "Генерация изображений отключена.",
		Help:               "Отправьте текст, голосовое сообщение, аудио или фото. Для изображения: {command} <описание>.",

		TranscribeInstruction: "Transcribe this audio. Return only the transcript text, nothing else.",
		PhotoInstruction:      "What is in this photo?",
	}
}

// WithDefaults fills every empty field of m from DefaultMessages.
func (m Messages) WithDefaults() Messages {
	d := DefaultMessages()
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&m.EmptyPrompt, d.EmptyPrompt)
	fill(&m.GenericError, d.GenericError)
	fill(&m.AudioTooLarge, d.AudioTooLarge)
	fill(&m.TranscriptLabel, d.TranscriptLabel)
	fill(&m.ImagePromptMissing, d.ImagePromptMissing)
	fill(&m.ImageFailed, d.ImageFailed)
	fill(&m.ImageRejected, d.ImageRejected)
	fill(&m.ImageDisabled, d.ImageDisabled)
	fill(&m.Help, d.Help)
	fill(&m.TranscribeInstruction, d.TranscribeInstruction)
	fill(&m.PhotoInstruction, d.PhotoInstruction)
	return m
}
