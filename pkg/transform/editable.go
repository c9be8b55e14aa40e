package transform

// Editable returns the standard pipeline for contenteditable innerHTML:
// unwrap divs, drop line breaks and &nbsp; references, then prune empty
// emphasis, strong and paragraph elements.
func Editable() Transform {
	return Chain(EditableStages()...)
}

// EditableStages returns the stages used by Editable, in order.
func EditableStages() []Transform {
	return []Transform{
		RemoveDivElements,
		RemoveBrElements,
		RemoveNonBreakingSpaces,
		RemoveEmptyEmphasisElements,
		RemoveEmptyStrongElements,
		RemoveEmptyParagraphElements,
	}
}
