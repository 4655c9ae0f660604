package acf

// fieldTypesByName maps flexible content subfield names to a field type when
// no field definition is bound to the stored key.
var fieldTypesByName = map[string]FieldType{
	"html_content":      FieldTypeText,
	"text_content":      FieldTypeText,
	"headline":          FieldTypeText,
	"videoId":           FieldTypeText,
	"channelId":         FieldTypeText,
	"display_type":      FieldTypeSelect,
	"alignment":         FieldTypeSelect,
	"newsletter_list":   FieldTypeSelect,
	"image_gallery":     FieldTypeGallery,
	"image":             FieldTypeImage,
	"location_repeater": FieldTypeRepeater,
	"products_repeater": FieldTypeRepeater,
	"fact_repeater":     FieldTypeRepeater,
	"acf_hide_layout":   FieldTypeBoolean,
	"autoplay":          FieldTypeBoolean,
}

// fieldTypesByLayout is consulted after fieldTypesByName, keyed by the layout
// name of the block the subfield belongs to.
var fieldTypesByLayout = map[string]FieldType{
	"text_editor":        FieldTypeText,
	"html_editor":        FieldTypeText,
	"newsletter_section": FieldTypeText,
	"competition":        FieldTypePostObject,
	"magazine_selection": FieldTypePostObject,
}

// inferFieldType guesses the type of a flexible content subfield, by subfield
// name first and by layout name second.
func inferFieldType(subfield, layout string) (FieldType, bool) {
	if t, ok := fieldTypesByName[subfield]; ok {
		return t, true
	}
	if t, ok := fieldTypesByLayout[layout]; ok {
		return t, true
	}
	return "", false
}
