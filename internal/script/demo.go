package script

// Demo draws a small scene touching every element kind.
const Demo = `
width: 640
height: 400
steps:
  - fill: "#1971c2"
  - tool: rect
  - drag: {from: {x: 40, y: 40}, to: {x: 240, y: 160}}
  - fill: "#e03131"
  - tool: ellipse
  - drag: {from: {x: 300, y: 60}, to: {x: 440, y: 200}}
  - drag: {from: {x: 370, y: 40}, to: {x: 470, y: 130}, modifiers: {shift: true}}
  - fill: "#2f9e44"
  - tool: freedraw
  - drag: {from: {x: 60, y: 260}, to: {x: 300, y: 340}, steps: 12}
  - fill: "#1e1e1e"
  - tool: text
  - click: {x: 360, y: 280}
  - type: "whiteboard"
  - endEdit: true
  - key: {key: "Escape"}
`
