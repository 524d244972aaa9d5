package ai

// Annotation prompts. Each prompt instructs the model to return a JSON object
// matching one of the semantic unit schemas. The responses are parsed with
// UnmarshalFlexible and fall back to heuristic line parsing when unusable.

const AnnotateComprehensivePrompt = `
# Task Context
You are a linguistic annotation assistant. You analyze a text document and
identify the semantic units it is built from.

# Detailed Task Description & Rules
- Identify the core concepts the text discusses. Rate each concept's importance
  from 1 (peripheral) to 5 (central).
- Identify named entities (people, organizations, locations, products, works,
  dates, events) with their category.
- Identify the key adjectives and adjective phrases. For each, judge the
  sentiment polarity (positive, negative or neutral) and an intensity from
  1 (mild) to 5 (strong).
- Identify the key verbs and verb phrases that carry the document's actions.
- Identify key phrases: short multi-word expressions central to the text.
- Identify semantic relations between concepts as subject-predicate-object
  triples.
- Only annotate what is actually present in the text. Do not invent units.
- Keep every extracted unit in the language of the source text.

# Output Formatting
Return a single JSON object with this structure:
{
  "concepts": [{"text": "...", "category": "...", "importance": 3}],
  "named_entities": [{"text": "...", "category": "..."}],
  "key_adjectives": [{"text": "...", "polarity": "positive", "intensity": 3}],
  "key_verbs": [{"text": "...", "category": "..."}],
  "key_phrases": [{"text": "...", "importance": 3}],
  "semantic_relations": [{"subject": "...", "predicate": "...", "object": "..."}]
}
`

const AnnotateConceptPrompt = `
# Task Context
You are a linguistic annotation assistant focused on conceptual content.

# Detailed Task Description & Rules
- Identify every distinct concept the text discusses.
- Assign each concept a short category (e.g. technology, society, economics).
- Rate importance from 1 (peripheral) to 5 (central to the document).
- Keep concepts in the language of the source text.

# Output Formatting
Return a single JSON object with this structure:
{
  "concepts": [{"text": "...", "category": "...", "importance": 3}]
}
`

const AnnotateEntityPrompt = `
# Task Context
You are a named entity recognition assistant.

# Detailed Task Description & Rules
- Identify named entities: persons, organizations, locations, products,
  creative works, dates and events.
- Assign each entity one category.
- Do not include generic nouns that are not proper names.

# Output Formatting
Return a single JSON object with this structure:
{
  "named_entities": [{"text": "...", "category": "..."}]
}
`

const AnnotateSentimentPrompt = `
# Task Context
You are a sentiment annotation assistant focused on descriptive language.

# Detailed Task Description & Rules
- Identify the adjectives and adjective phrases that carry evaluative or
  emotional weight.
- For each, judge polarity as "positive", "negative" or "neutral".
- Rate intensity from 1 (mild) to 5 (strong).
- Also list the key verbs that carry emotional coloring, with their polarity.

# Output Formatting
Return a single JSON object with this structure:
{
  "key_adjectives": [{"text": "...", "polarity": "positive", "intensity": 3}],
  "key_verbs": [{"text": "...", "polarity": "neutral"}]
}
`

const AnnotateRelationPrompt = `
# Task Context
You are a semantic relation extraction assistant.

# Detailed Task Description & Rules
- Identify relations between the concepts and entities in the text.
- Express each relation as a subject-predicate-object triple using wording
  close to the source text.
- Only extract relations that the text states or strongly implies.

# Output Formatting
Return a single JSON object with this structure:
{
  "semantic_relations": [{"subject": "...", "predicate": "...", "object": "..."}]
}
`

// Evaluator prompts. These receive structured cluster or candidate-pair data
// and return qualitative plus quantitative judgments through schema-enforced
// completions.

const EvaluateClusterThemesPrompt = `
# Task Context
You are an analyst interpreting concept clusters produced from a document's
semantic vector space.

# Background Data
%s

# Detailed Task Description & Rules
- For each cluster, infer the common theme connecting its member concepts.
- Give each cluster a concise theme label in Chinese and a one-sentence
  interpretation of what the grouping reveals about the document's thinking.
- Judge how coherent each cluster is from 1 (arbitrary grouping) to 5
  (tightly themed).

# Output Formatting
Return a JSON object listing one interpretation per cluster, in cluster order.
`

const EvaluateNoveltyPrompt = `
# Task Context
You are an analyst rating the creativity of concept associations found in a
document. You will receive pairs of concepts that are semantically distant yet
co-occur in the same text.

# Background Data
%s

# Detailed Task Description & Rules
- For each pair, rate the novelty of the association from 1 (obvious or
  mundane) to 5 (highly unexpected yet meaningful).
- Give each pair a short qualitative label in Chinese, e.g. "富有创意的联想"
  for genuinely creative pairings or "常规搭配" for ordinary ones.
- A high score requires the pairing to be both surprising and meaningful in
  context; random unrelatedness is not creativity.

# Output Formatting
Return a JSON object listing one rating per pair, in input order.
`
