package gemini

// Prompts for the staged query flow. The selector prompt demands strict
// JSON so its output can be parsed; everything else is free text.
const (
	summaryPrompt = "Analyze this lecture material and provide a concise summary " +
		"including the main topics discussed, key concepts, definitions, " +
		"and any specific examples mentioned. Format the output clearly."

	selectSystemPrompt = "You are an AI assistant helping a student find information " +
		"in their lecture materials. You will be given the student's query and a list " +
		"of items, each with a numeric id and a summary. Return the ids of every item " +
		"whose summary suggests it is relevant to the query. You may return multiple " +
		"ids, or none. Respond with JSON only, in the form {\"ids\": [1, 2]}."

	answerInstruction = "Using only the attached lecture material, answer the " +
		"following question. If the material does not cover it, say so.\n\nQuestion: "

	synthesisSystemPrompt = "You are an AI assistant synthesizing information from " +
		"different lecture materials to answer a student's query. Based only on the " +
		"individual answers provided, each derived directly from one item, produce a " +
		"single, comprehensive, well-structured final answer. If the individual " +
		"answers conflict or are insufficient, acknowledge that."
)
