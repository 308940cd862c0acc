package mcpserver

// NoteFormatContract describes the Obsidian note format the blog
// preprocessor accepts.
const NoteFormatContract = `# Blog Note Format

Blog notes live directly in the vault's ` + "`Blog/`" + ` folder (sub-folders are not
read). Each ` + "`.md`" + ` or ` + "`.mdx`" + ` file becomes ` + "`content/{slug}.mdx`" + `.

## Header

` + "```" + `markdown
---
title: My first post            # REQUIRED
date: 2024-03-01                # REQUIRED (or publishedAt)
description: One-line summary   # REQUIRED (or summary)
tags: ["go", "web"]             # REQUIRED; JSON-ish array or comma list
slug: custom-slug               # OPTIONAL; defaults to the slugified file name
image: /blog-images/cover.png   # OPTIONAL
draft: true                     # OPTIONAL; drafts are skipped
---
` + "```" + `

- One ` + "`key: value`" + ` per line. Nested YAML and block lists are not understood.
- ` + "`publishedAt`" + ` wins over ` + "`date`" + `, ` + "`summary`" + ` wins over ` + "`description`" + `.
- Only ` + "`draft: true`" + ` marks a draft.

## Body syntax

- ` + "`![[cover.png]]`" + ` or ` + "`![[cover.png|Alt]]`" + `: image from ` + "`Blog/assets/`" + `,
  copied to ` + "`/blog-images/{slug}-cover.png`" + `.
- ` + "`![Alt](cover.png)`" + `: local images are rewritten the same way; URLs and
  absolute paths are left alone.
- ` + "`[[Other Post]]`" + ` or ` + "`[[Other Post|label]]`" + `: link to ` + "`/blog/other-post`" + `.
- ` + "`> [!tip] Title`" + ` followed by ` + "`> `" + ` lines: rendered as a Callout block.
  Known types: note, tip, info, warning, danger, error, success, question,
  quote, example, bug, abstract, todo, important, caution. Other types get 📝.
`
