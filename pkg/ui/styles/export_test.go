package styles

var EmbeddedStyles = embeddedStyles
